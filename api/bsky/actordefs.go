package bsky

// schema: app.bsky.actor.defs

// ActorDefs_ProfileView is a "profileView" in the app.bsky.actor.defs schema.
//
// Only the fields earmuffs reads are declared; unknown fields are ignored when decoding.
type ActorDefs_ProfileView struct {
	CreatedAt   *string `json:"createdAt,omitempty"`
	Description *string `json:"description,omitempty"`
	Did         string  `json:"did"`
	DisplayName *string `json:"displayName,omitempty"`
	Handle      string  `json:"handle"`
	IndexedAt   *string `json:"indexedAt,omitempty"`
}

package bsky

// schema: app.bsky.graph.defs

const (
	// A list of actors to apply an aggregate moderation action (mute/block) on.
	GraphDefs_Modlist = "app.bsky.graph.defs#modlist"
	// A list of actors used for curation purposes such as list feeds or interaction gating.
	GraphDefs_Curatelist = "app.bsky.graph.defs#curatelist"
)

// GraphDefs_ListItemView is a "listItemView" in the app.bsky.graph.defs schema.
type GraphDefs_ListItemView struct {
	Subject *ActorDefs_ProfileView `json:"subject"`
	// uri: the app.bsky.graph.listitem record
	Uri string `json:"uri"`
}

// GraphDefs_ListView is a "listView" in the app.bsky.graph.defs schema.
type GraphDefs_ListView struct {
	Cid           string                 `json:"cid"`
	Creator       *ActorDefs_ProfileView `json:"creator"`
	Description   *string                `json:"description,omitempty"`
	IndexedAt     string                 `json:"indexedAt"`
	ListItemCount *int64                 `json:"listItemCount,omitempty"`
	Name          string                 `json:"name"`
	Purpose       *string                `json:"purpose"`
	Uri           string                 `json:"uri"`
}

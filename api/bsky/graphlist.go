package bsky

// schema: app.bsky.graph.list

// GraphList is a "main" in the app.bsky.graph.list schema.
//
// Record representing a list of accounts (actors). Scope includes both moderation-oriented lists and curration-oriented lists.
type GraphList struct {
	LexiconTypeID string  `json:"$type,const=app.bsky.graph.list"`
	CreatedAt     string  `json:"createdAt"`
	Description   *string `json:"description,omitempty"`
	// name: Display name for list; can not be empty.
	Name string `json:"name"`
	// purpose: Defines the purpose of the list (aka, moderation-oriented or curration-oriented)
	Purpose *string `json:"purpose"`
}

package bsky

// schema: app.bsky.graph.listitem

// GraphListitem is a "main" in the app.bsky.graph.listitem schema.
//
// Record representing an account's inclusion on a specific list. The AppView will ignore duplicate listitem records.
type GraphListitem struct {
	LexiconTypeID string `json:"$type,const=app.bsky.graph.listitem"`
	CreatedAt     string `json:"createdAt"`
	// list: Reference (AT-URI) to the list record (app.bsky.graph.list).
	List string `json:"list"`
	// subject: The account which is included on the list.
	Subject string `json:"subject"`
}

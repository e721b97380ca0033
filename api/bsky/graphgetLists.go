package bsky

// schema: app.bsky.graph.getLists

import (
	"context"

	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

// GraphGetLists_Output is the output of a app.bsky.graph.getLists call
type GraphGetLists_Output struct {
	Cursor *string               `json:"cursor,omitempty"`
	Lists  []*GraphDefs_ListView `json:"lists"`
}

// GraphGetLists calls the XRPC method "app.bsky.graph.getLists".
//
// actor: The account (actor) to enumerate lists from.
func GraphGetLists(ctx context.Context, c lexutil.LexClient, actor string, cursor string, limit int64) (*GraphGetLists_Output, error) {
	var out GraphGetLists_Output

	params := map[string]any{}
	params["actor"] = actor
	if cursor != "" {
		params["cursor"] = cursor
	}
	if limit != 0 {
		params["limit"] = limit
	}
	if err := c.LexDo(ctx, lexutil.Query, "", "app.bsky.graph.getLists", params, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

package bsky

// schema: app.bsky.graph.getList

import (
	"context"

	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

// GraphGetList_Output is the output of a app.bsky.graph.getList call
type GraphGetList_Output struct {
	Cursor *string                   `json:"cursor,omitempty"`
	Items  []*GraphDefs_ListItemView `json:"items"`
	List   *GraphDefs_ListView       `json:"list"`
}

// GraphGetList calls the XRPC method "app.bsky.graph.getList".
//
// list: Reference (AT-URI) of the list record to hydrate.
func GraphGetList(ctx context.Context, c lexutil.LexClient, cursor string, limit int64, list string) (*GraphGetList_Output, error) {
	var out GraphGetList_Output

	params := map[string]any{}
	if cursor != "" {
		params["cursor"] = cursor
	}
	if limit != 0 {
		params["limit"] = limit
	}
	params["list"] = list
	if err := c.LexDo(ctx, lexutil.Query, "", "app.bsky.graph.getList", params, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

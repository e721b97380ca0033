package bsky

// schema: app.bsky.graph.getFollows

import (
	"context"

	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

// GraphGetFollows_Output is the output of a app.bsky.graph.getFollows call
type GraphGetFollows_Output struct {
	Cursor  *string                  `json:"cursor,omitempty"`
	Follows []*ActorDefs_ProfileView `json:"follows"`
	Subject *ActorDefs_ProfileView   `json:"subject"`
}

// GraphGetFollows calls the XRPC method "app.bsky.graph.getFollows".
func GraphGetFollows(ctx context.Context, c lexutil.LexClient, actor string, cursor string, limit int64) (*GraphGetFollows_Output, error) {
	var out GraphGetFollows_Output

	params := map[string]any{}
	params["actor"] = actor
	if cursor != "" {
		params["cursor"] = cursor
	}
	if limit != 0 {
		params["limit"] = limit
	}
	if err := c.LexDo(ctx, lexutil.Query, "", "app.bsky.graph.getFollows", params, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

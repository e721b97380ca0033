package atproto

// schema: com.atproto.server.createSession

import (
	"context"

	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

// ServerCreateSession_Input is the input argument to a com.atproto.server.createSession call
type ServerCreateSession_Input struct {
	AuthFactorToken *string `json:"authFactorToken,omitempty"`
	// identifier: Handle or other identifier supported by the server for the authenticating user.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// ServerCreateSession_Output is the output of a com.atproto.server.createSession call
type ServerCreateSession_Output struct {
	AccessJwt  string  `json:"accessJwt"`
	Active     *bool   `json:"active,omitempty"`
	Did        string  `json:"did"`
	Email      *string `json:"email,omitempty"`
	Handle     string  `json:"handle"`
	RefreshJwt string  `json:"refreshJwt"`
	// status: If active=false, this optional field indicates a possible reason for why the account is not active.
	Status *string `json:"status,omitempty"`
}

// ServerCreateSession calls the XRPC method "com.atproto.server.createSession".
func ServerCreateSession(ctx context.Context, c lexutil.LexClient, input *ServerCreateSession_Input) (*ServerCreateSession_Output, error) {
	var out ServerCreateSession_Output
	if err := c.LexDo(ctx, lexutil.Procedure, "application/json", "com.atproto.server.createSession", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

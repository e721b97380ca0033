package atproto

// schema: com.atproto.server.refreshSession

// ServerRefreshSession_Output is the output of a com.atproto.server.refreshSession call.
//
// The call itself is made directly by the session auth method (it authenticates with the refresh token, not the access token), so there is no helper function here.
type ServerRefreshSession_Output struct {
	AccessJwt  string  `json:"accessJwt"`
	Active     *bool   `json:"active,omitempty"`
	Did        string  `json:"did"`
	Handle     string  `json:"handle"`
	RefreshJwt string  `json:"refreshJwt"`
	Status     *string `json:"status,omitempty"`
}

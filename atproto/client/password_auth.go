package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	comatproto "github.com/bluesky-social/earmuffs/api/atproto"
	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

type AuthMethod interface {
	DoWithAuth(ctx context.Context, httpReq *http.Request, httpClient *http.Client) (*http.Response, error)
}

// Account session auth, using access and refresh tokens from "createSession". Safe for concurrent use.
type PasswordAuth struct {
	Session SessionData

	// Optional callback, invoked with a copy of the new session data after a successful refresh.
	RefreshCallback func(ctx context.Context, data SessionData)

	lk sync.RWMutex
}

type SessionData struct {
	AccessToken  string
	RefreshToken string
	AccountDID   syntax.DID
	Host         string
}

var _ AuthMethod = (*PasswordAuth)(nil)

func (a *PasswordAuth) accessToken() string {
	a.lk.RLock()
	defer a.lk.RUnlock()
	return a.Session.AccessToken
}

func (a *PasswordAuth) DoWithAuth(ctx context.Context, req *http.Request, c *http.Client) (*http.Response, error) {
	token := a.accessToken()
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	// on success, or most errors, just return HTTP response
	if resp.StatusCode != http.StatusBadRequest || !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return resp, nil
	}

	// parse the error response body (JSON) and check the error name
	defer resp.Body.Close()
	apiErr := errorFromResponse(resp)
	if apiErr.Name != "ExpiredToken" {
		return nil, apiErr
	}

	if err := a.Refresh(ctx, c, token); err != nil {
		return nil, err
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		retry.Body, err = req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("API request retry GetBody failed: %w", err)
		}
	}
	retry.Header.Set("Authorization", "Bearer "+a.accessToken())
	return c.Do(retry)
}

// Refreshes the session tokens. 'prior' is the access token which was found to be expired; if the session has already moved on from it (a concurrent request refreshed first), this is a no-op.
func (a *PasswordAuth) Refresh(ctx context.Context, c *http.Client, prior string) error {
	a.lk.Lock()
	defer a.lk.Unlock()

	if prior != a.Session.AccessToken {
		return nil
	}

	u := a.Session.Host + "/xrpc/com.atproto.server.refreshSession"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	// NOTE: using refresh token here, not access token
	req.Header.Set("Authorization", "Bearer "+a.Session.RefreshToken)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return fmt.Errorf("refreshing session: %w", errorFromResponse(resp))
	}

	var out comatproto.ServerRefreshSession_Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Did != a.Session.AccountDID.String() {
		return fmt.Errorf("refreshed session DID did not match: %s", out.Did)
	}

	a.Session.AccessToken = out.AccessJwt
	a.Session.RefreshToken = out.RefreshJwt
	if a.RefreshCallback != nil {
		a.RefreshCallback(ctx, a.Session)
	}
	return nil
}

// Creates an account session on the client's host (PDS or entryway), and configures the client to use it.
//
// 'username' is a handle or DID (not an email). 'authFactorToken' is optional (empty string).
func LoginWithPassword(ctx context.Context, c *APIClient, username syntax.AtIdentifier, password, authFactorToken string) (*PasswordAuth, error) {
	if c.Auth != nil {
		return nil, fmt.Errorf("API client already has auth configured")
	}

	input := comatproto.ServerCreateSession_Input{
		Identifier: username.String(),
		Password:   password,
	}
	if authFactorToken != "" {
		input.AuthFactorToken = &authFactorToken
	}
	out, err := comatproto.ServerCreateSession(ctx, c, &input)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if out.Active != nil && !*out.Active {
		status := ""
		if out.Status != nil {
			status = *out.Status
		}
		return nil, fmt.Errorf("account is not active: %s", status)
	}

	did, err := syntax.ParseDID(out.Did)
	if err != nil {
		return nil, fmt.Errorf("invalid session DID: %w", err)
	}
	if username.IsDID() && username.String() != did.String() {
		return nil, fmt.Errorf("returned session DID not requested account: %s", did)
	}
	if h, err := username.AsHandle(); err == nil && h.Normalize().String() != strings.ToLower(out.Handle) {
		return nil, fmt.Errorf("returned session handle not requested account: %s", out.Handle)
	}

	auth := PasswordAuth{
		Session: SessionData{
			AccessToken:  out.AccessJwt,
			RefreshToken: out.RefreshJwt,
			AccountDID:   did,
			Host:         c.Host,
		},
	}
	c.Auth = &auth
	c.AccountDID = &did
	return &auth, nil
}

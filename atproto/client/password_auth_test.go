package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bluesky-social/earmuffs/atproto/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pwServer struct {
	refreshCount atomic.Int32
}

func (s *pwServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/xrpc/com.atproto.server.refreshSession":
		if r.Method != http.MethodPost || r.Header.Get("Authorization") != "Bearer refresh1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, `{"error":"InvalidToken"}`)
			return
		}
		s.refreshCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"did":        "did:web:account.example.com",
			"handle":     "user1.example.com",
			"accessJwt":  "access2",
			"refreshJwt": "refresh2",
		})
	case "/xrpc/com.atproto.server.createSession":
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if body["identifier"] != "user1.example.com" || body["password"] != "password1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"error":"AuthenticationRequired","message":"Invalid identifier or password"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"did":        "did:web:account.example.com",
			"handle":     "user1.example.com",
			"accessJwt":  "access1",
			"refreshJwt": "refresh1",
		})
	case "/xrpc/com.example.get":
		if r.Header.Get("Authorization") == "Bearer access1" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, `{"status":"success"}`)
			return
		}
		w.Header().Set("WWW-Authenticate", `Bearer`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case "/xrpc/com.example.expire":
		switch r.Header.Get("Authorization") {
		case "Bearer access1":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, `{"error":"ExpiredToken"}`)
		case "Bearer access2":
			var body map[string]string
			if r.Method == http.MethodPost {
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["k"] != "v" {
					http.Error(w, "Bad Request", http.StatusBadRequest)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, `{"status":"success"}`)
		default:
			w.Header().Set("WWW-Authenticate", `Bearer`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
	default:
		http.NotFound(w, r)
	}
}

func TestPasswordAuth(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	handler := &pwServer{}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	c.HTTPClient = srv.Client()

	var refreshed SessionData
	auth, err := LoginWithPassword(ctx, c, syntax.Handle("user1.example.com").AtIdentifier(), "password1", "")
	require.NoError(err)
	auth.RefreshCallback = func(ctx context.Context, data SessionData) {
		refreshed = data
	}
	assert.Equal(syntax.DID("did:web:account.example.com"), c.AuthDID())

	var out map[string]string
	require.NoError(c.Get(ctx, syntax.NSID("com.example.get"), nil, &out))
	assert.Equal("success", out["status"])

	// expired access token triggers a refresh and retry, including request body
	require.NoError(c.Post(ctx, syntax.NSID("com.example.expire"), map[string]string{"k": "v"}, &out))
	assert.Equal("success", out["status"])
	assert.Equal(int32(1), handler.refreshCount.Load())
	assert.Equal("access2", refreshed.AccessToken)
	assert.Equal("refresh2", refreshed.RefreshToken)

	// a stale 'prior' token does not cause a second refresh
	assert.NoError(auth.Refresh(ctx, srv.Client(), "access1"))
	assert.Equal(int32(1), handler.refreshCount.Load())

	// logging in twice on the same client is an error
	_, err = LoginWithPassword(ctx, c, syntax.Handle("user1.example.com").AtIdentifier(), "password1", "")
	assert.Error(err)
}

func TestPasswordAuthFailures(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(&pwServer{})
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	c.HTTPClient = srv.Client()

	_, err := LoginWithPassword(ctx, c, syntax.Handle("user1.example.com").AtIdentifier(), "wrong", "")
	var apiErr *APIError
	assert.True(errors.As(err, &apiErr))
	assert.Equal("AuthenticationRequired", apiErr.Name)
	assert.Nil(c.Auth)

	// session DID must match a DID username
	_, err = LoginWithPassword(ctx, c, syntax.AtIdentifier("did:web:other.example.com"), "password1", "")
	assert.Error(err)
	assert.Nil(c.Auth)
}

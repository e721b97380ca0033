package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
	"github.com/bluesky-social/earmuffs/blocklist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal PDS: one account with one list, and alice with two followers.
type fakePDS struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (f *fakePDS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/xrpc/com.atproto.server.createSession":
		fmt.Fprintln(w, `{"did":"did:plc:me","handle":"me.example.com","accessJwt":"access","refreshJwt":"refresh","active":true}`)
		return
	case "/xrpc/com.atproto.identity.resolveHandle":
		if r.URL.Query().Get("handle") == "alice.example.com" {
			fmt.Fprintln(w, `{"did":"did:plc:alice"}`)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintln(w, `{"error":"InvalidRequest","message":"Unable to resolve handle"}`)
		return
	}

	if r.Header.Get("Authorization") != "Bearer access" {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintln(w, `{"error":"AuthRequired"}`)
		return
	}
	switch r.URL.Path {
	case "/xrpc/app.bsky.graph.getLists":
		fmt.Fprintln(w, `{"lists":[{"uri":"at://did:plc:me/app.bsky.graph.list/l1","cid":"bafy","name":"alice followers","purpose":"app.bsky.graph.defs#modlist","indexedAt":"2024-01-01T00:00:00Z"}]}`)
	case "/xrpc/app.bsky.graph.getFollowers":
		fmt.Fprintln(w, `{"subject":{"did":"did:plc:alice","handle":"alice.example.com"},"followers":[{"did":"did:plc:bob","handle":"bob.example.com"},{"did":"did:plc:carol","handle":"carol.example.com"}]}`)
	case "/xrpc/app.bsky.graph.getList":
		fmt.Fprintln(w, `{"list":{"uri":"at://did:plc:me/app.bsky.graph.list/l1","cid":"bafy","name":"alice followers","indexedAt":"2024-01-01T00:00:00Z"},"items":[{"uri":"at://did:plc:me/app.bsky.graph.listitem/i1","subject":{"did":"did:plc:bob","handle":"bob.example.com"}},{"uri":"at://did:plc:me/app.bsky.graph.listitem/i2","subject":{"did":"did:plc:dave","handle":"dave.example.com"}}]}`)
	case "/xrpc/com.atproto.repo.createRecord":
		var body struct {
			Record struct {
				Subject string `json:"subject"`
			} `json:"record"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.created = append(f.created, body.Record.Subject)
		f.mu.Unlock()
		fmt.Fprintln(w, `{"uri":"at://did:plc:me/app.bsky.graph.listitem/new","cid":"bafy"}`)
	case "/xrpc/com.atproto.repo.deleteRecord":
		var body struct {
			Rkey string `json:"rkey"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.deleted = append(f.deleted, body.Rkey)
		f.mu.Unlock()
		fmt.Fprintln(w, `{}`)
	default:
		http.NotFound(w, r)
	}
}

func writeConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "earmuffs.yaml")
	doc := `
auth:
  handle: me.example.com
lists:
  - name: alice followers
    includes:
      - followers_of: alice.example.com
    excludes:
      - literal: ["did:plc:carol"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	return path
}

func TestRunCommand(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	pds := &fakePDS{}
	srv := httptest.NewServer(pds)
	defer srv.Close()

	args := []string{"earmuffs", "--config", writeConfig(t), "--pds-host", srv.URL, "--app-password", "secret", "--log-level", "warn",
		"run", "--write-rate-limit", "0"}
	require.NoError(run(args))

	// bob already on the list, carol excluded, dave removed
	assert.Empty(pds.created)
	assert.Equal([]string{"i2"}, pds.deleted)
}

func TestRunCommandDryRun(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	pds := &fakePDS{}
	srv := httptest.NewServer(pds)
	defer srv.Close()

	args := []string{"earmuffs", "-c", writeConfig(t), "--pds-host", srv.URL, "--app-password", "secret", "--log-level", "error", "plan"}
	require.NoError(run(args))
	assert.Empty(pds.created)
	assert.Empty(pds.deleted)
}

func TestRunCommandMissingPassword(t *testing.T) {
	t.Setenv("EARMUFFS_APP_PASSWORD", "")
	t.Setenv("EM_APP_PW", "")
	err := run([]string{"earmuffs", "-c", writeConfig(t), "--log-level", "error", "run"})
	assert.ErrorContains(t, err, "app password")
}

func TestConfigLogger(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger, err := configLogger(&buf, "WARN", true)
	assert.NoError(err)
	logger.Info("hidden")
	logger.Warn("shown", "list", "x")
	var line map[string]any
	assert.NoError(json.Unmarshal(buf.Bytes(), &line))
	assert.Equal("shown", line["msg"])
	assert.Equal("x", line["list"])

	_, err = configLogger(&buf, "verbose", false)
	assert.Error(err)
}

func TestPrintPlans(t *testing.T) {
	assert := assert.New(t)

	report := &blocklist.RunReport{Lists: []blocklist.ListResult{
		{
			Name:   "blocked",
			Status: blocklist.StatusPlanned,
			Target: 2,
			Plan: &blocklist.Plan{
				ToAdd:    blocklist.NewAccountSet(syntax.DID("did:plc:carol")),
				ToRemove: []blocklist.MembershipRecord{{Member: syntax.DID("did:plc:dave"), URI: syntax.ATURI("at://did:plc:me/app.bsky.graph.listitem/i2")}},
			},
		},
		{Name: "new", Status: blocklist.StatusMissing},
	}}
	var buf bytes.Buffer
	printPlans(&buf, report)
	assert.Equal(`list "blocked": 2 accounts, 1 to add, 1 to remove
  + did:plc:carol
  - did:plc:dave	at://did:plc:me/app.bsky.graph.listitem/i2
list "new": does not exist, would be created
`, buf.String())

	buf.Reset()
	printLists(&buf, map[string]blocklist.ListHandle{
		"b": {Name: "b", URI: syntax.ATURI("at://did:plc:me/app.bsky.graph.list/2"), Purpose: blocklist.PurposeCuration},
		"a": {Name: "a", URI: syntax.ATURI("at://did:plc:me/app.bsky.graph.list/1"), Purpose: blocklist.PurposeModeration},
	})
	assert.Equal("a\tat://did:plc:me/app.bsky.graph.list/1\tmodlist\nb\tat://did:plc:me/app.bsky.graph.list/2\tcuratelist\n", buf.String())
}

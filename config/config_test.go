package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
	"github.com/bluesky-social/earmuffs/blocklist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleJSON = `{
  "auth": {"handle": "me.example.com"},
  "lists": [
    {
      "name": "my blocklist",
      "includes": [{"followers_of": "Alice.Example.com"}, {"followed_by": "did:plc:bob"}],
      "excludes": [{"literal": ["carol.example.com", "did:plc:dave"]}]
    },
    {
      "name": "curated",
      "purpose": "curatelist",
      "description": "people worth reading",
      "includes": [{"follows_of": "erin.example.com"}]
    }
  ]
}`

const exampleYAML = `
auth:
  handle: me.example.com
  app_password: abcd-efgh-ijkl-mnop
lists:
  - name: my blocklist
    includes:
      - followers_of: Alice.Example.com
      - followed_by: did:plc:bob
    excludes:
      - literal: ["carol.example.com", "did:plc:dave"]
  - name: curated
    purpose: curatelist
    description: people worth reading
    includes:
      - follows_of: erin.example.com
`

func checkExample(t *testing.T, cfg *Config) {
	assert := assert.New(t)
	require := require.New(t)

	assert.Equal("me.example.com", cfg.Auth.Handle)
	specs, err := cfg.Blocklists()
	require.NoError(err)
	require.Len(specs, 2)

	assert.Equal(blocklist.BlocklistSpec{
		Name:    "my blocklist",
		Purpose: blocklist.PurposeModeration,
		Includes: []blocklist.Source{
			blocklist.FollowersOf(syntax.AtIdentifier("alice.example.com")),
			blocklist.FollowsOf(syntax.AtIdentifier("did:plc:bob")),
		},
		Excludes: []blocklist.Source{
			blocklist.Literal(syntax.AtIdentifier("carol.example.com"), syntax.AtIdentifier("did:plc:dave")),
		},
	}, specs[0])

	assert.Equal(blocklist.PurposeCuration, specs[1].Purpose)
	assert.Equal("people worth reading", specs[1].Description)
	assert.Empty(specs[1].Excludes)
}

func TestParseJSON(t *testing.T) {
	cfg, err := Parse(strings.NewReader(exampleJSON), FormatJSON)
	require.NoError(t, err)
	checkExample(t, cfg)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse(strings.NewReader(exampleYAML), FormatYAML)
	require.NoError(t, err)
	checkExample(t, cfg)
	assert.Equal(t, "abcd-efgh-ijkl-mnop", cfg.Auth.AppPassword)
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	bad := map[string]string{
		"no lists":        `{"auth": {"handle": "me.example.com"}, "lists": []}`,
		"unknown field":   `{"lists": [{"name": "x", "includes": [], "colour": "red"}]}`,
		"empty name":      `{"lists": [{"name": " ", "includes": []}]}`,
		"duplicate name":  `{"lists": [{"name": "x", "includes": []}, {"name": "x", "includes": []}]}`,
		"bad purpose":     `{"lists": [{"name": "x", "purpose": "blocklist", "includes": []}]}`,
		"two keys":        `{"lists": [{"name": "x", "includes": [{"followers_of": "a.example.com", "follows_of": "b.example.com"}]}]}`,
		"no keys":         `{"lists": [{"name": "x", "includes": [{}]}]}`,
		"bad handle":      `{"lists": [{"name": "x", "includes": [{"followers_of": "not a handle"}]}]}`,
		"bad literal":     `{"lists": [{"name": "x", "includes": [], "excludes": [{"literal": ["did:"]}]}]}`,
		"bad auth handle": `{"auth": {"handle": "@me"}, "lists": [{"name": "x", "includes": []}]}`,
		"not json":        `lists: []`,
	}
	for name, doc := range bad {
		_, err := Parse(strings.NewReader(doc), FormatJSON)
		assert.Error(err, name)
	}

	_, err := Parse(strings.NewReader("lists:\n  - name: x\n    includs: []\n"), FormatYAML)
	assert.Error(err)
}

func TestFormatForPath(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(FormatYAML, FormatForPath("config/earmuffs.yaml"))
	assert.Equal(FormatYAML, FormatForPath("EARMUFFS.YML"))
	assert.Equal(FormatJSON, FormatForPath("earmuffs.json"))
	assert.Equal(FormatJSON, FormatForPath("earmuffs"))
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "lists.json")
	require.NoError(os.WriteFile(jsonPath, []byte(exampleJSON), 0600))
	cfg, err := Load(jsonPath)
	require.NoError(err)
	checkExample(t, cfg)

	yamlPath := filepath.Join(dir, "lists.yml")
	require.NoError(os.WriteFile(yamlPath, []byte(exampleYAML), 0600))
	cfg, err = Load(yamlPath)
	require.NoError(err)
	checkExample(t, cfg)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.ErrorIs(err, os.ErrNotExist)
}

func TestFindPath(t *testing.T) {
	assert := assert.New(t)

	p, err := FindPath("/some/where.yaml")
	assert.NoError(err)
	assert.Equal("/some/where.yaml", p)
}

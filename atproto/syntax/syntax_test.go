package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDID(t *testing.T) {
	assert := assert.New(t)

	for _, raw := range []string{
		"did:plc:ewvi7nxzyoun6zhxrhs64oiz",
		"did:web:example.com",
		"did:web:localhost%3A1234",
	} {
		d, err := ParseDID(raw)
		assert.NoError(err, raw)
		assert.Equal(raw, d.String())
	}

	for _, raw := range []string{
		"",
		"did",
		"did:PLC:abc",
		"did:plc:",
		"plc:abc123",
		"alice.example.com",
	} {
		_, err := ParseDID(raw)
		assert.Error(err, raw)
	}

	d := DID("did:plc:abc123")
	assert.Equal("plc", d.Method())
	assert.Equal(d.String(), d.AtIdentifier().String())
}

func TestParseHandle(t *testing.T) {
	assert := assert.New(t)

	h, err := ParseHandle("Alice.Example.COM")
	assert.NoError(err)
	assert.Equal(Handle("alice.example.com"), h.Normalize())

	for _, raw := range []string{
		"",
		"alice",
		"alice..example.com",
		"-alice.example.com",
		"alice.example.123",
	} {
		_, err := ParseHandle(raw)
		assert.Error(err, raw)
	}

	assert.True(Handle("Handle.Invalid").IsInvalidHandle())
	assert.False(Handle("alice.example.com").IsInvalidHandle())
}

func TestAtIdentifier(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	did, err := ParseAtIdentifier("did:plc:abc123")
	require.NoError(err)
	assert.True(did.IsDID())
	assert.False(did.IsHandle())
	d, err := did.AsDID()
	assert.NoError(err)
	assert.Equal(DID("did:plc:abc123"), d)
	_, err = did.AsHandle()
	assert.Error(err)

	handle, err := ParseAtIdentifier("Bob.Example.com")
	require.NoError(err)
	assert.True(handle.IsHandle())
	assert.Equal(AtIdentifier("bob.example.com"), handle.Normalize())
	_, err = handle.AsDID()
	assert.Error(err)

	_, err = ParseAtIdentifier("")
	assert.Error(err)
	_, err = ParseAtIdentifier("did:bad")
	assert.Error(err)

	var atid AtIdentifier
	assert.NoError(atid.UnmarshalText([]byte("carol.example.com")))
	assert.Equal(AtIdentifier("carol.example.com"), atid)
	assert.Error(atid.UnmarshalText([]byte("not a handle")))
}

func TestATURI(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	u, err := ParseATURI("at://did:plc:abc123/app.bsky.graph.listitem/3kabcdefg2x2a")
	require.NoError(err)

	auth, err := u.Authority()
	assert.NoError(err)
	assert.Equal(AtIdentifier("did:plc:abc123"), auth)

	coll, err := u.Collection()
	assert.NoError(err)
	assert.Equal(NSID("app.bsky.graph.listitem"), coll)

	rkey, err := u.RecordKey()
	assert.NoError(err)
	assert.Equal(RecordKey("3kabcdefg2x2a"), rkey)

	repoOnly, err := ParseATURI("at://alice.example.com")
	require.NoError(err)
	_, err = repoOnly.Collection()
	assert.Error(err)
	_, err = repoOnly.RecordKey()
	assert.Error(err)

	for _, raw := range []string{
		"",
		"https://example.com",
		"at://",
		"at://did:plc:abc123/notansid/abc",
		"at://did:plc:abc123/app.bsky.graph.list/..",
	} {
		_, err := ParseATURI(raw)
		assert.Error(err, raw)
	}
}

func TestParseRecordKey(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseRecordKey("self")
	assert.NoError(err)
	_, err = ParseRecordKey("3kabcdefg2x2a")
	assert.NoError(err)

	for _, raw := range []string{"", ".", "..", "a/b", "has space"} {
		_, err := ParseRecordKey(raw)
		assert.Error(err, raw)
	}
}

func TestParseNSID(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseNSID("app.bsky.graph.getFollowers")
	assert.NoError(err)
	_, err = ParseNSID("app")
	assert.Error(err)
	_, err = ParseNSID("")
	assert.Error(err)
}

func TestDatetimeNow(t *testing.T) {
	assert := assert.New(t)
	d := DatetimeNow()
	assert.Regexp(`^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?Z$`, d.String())
}

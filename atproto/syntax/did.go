package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

// Represents a syntactically valid DID identifier.
//
// DIDs are the canonical account identifier: set operations on accounts are always done on DIDs, never on handles.
//
// Always use [ParseDID] instead of wrapping strings directly, especially when working with input.
type DID string

var didRegex = regexp.MustCompile(`^did:[a-z]+:[a-zA-Z0-9._:%-]*[a-zA-Z0-9._-]$`)

func ParseDID(raw string) (DID, error) {
	if raw == "" {
		return "", fmt.Errorf("expected DID, got empty string")
	}
	if len(raw) > 2*1024 {
		return "", fmt.Errorf("DID is too long (2048 chars max)")
	}
	if !didRegex.MatchString(raw) {
		return "", fmt.Errorf("DID syntax didn't validate via regex: %s", raw)
	}
	return DID(raw), nil
}

// The "method" part of the DID, between the 'did:' prefix and the final identifier segment, normalized to lower-case.
func (d DID) Method() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}

func (d DID) AtIdentifier() AtIdentifier {
	return AtIdentifier(d)
}

func (d DID) String() string {
	return string(d)
}

func (d DID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DID) UnmarshalText(text []byte) error {
	did, err := ParseDID(string(text))
	if err != nil {
		return err
	}
	*d = did
	return nil
}

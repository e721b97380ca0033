package syntax

import (
	"errors"
	"regexp"
)

var nsidRegex = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+(\.[a-zA-Z]([a-zA-Z]{0,61}[a-zA-Z])?)$`)

// Namespace Identifier (NSID): names both API endpoints ("app.bsky.graph.getList") and record collections ("app.bsky.graph.listitem").
type NSID string

func ParseNSID(raw string) (NSID, error) {
	if raw == "" {
		return "", errors.New("expected NSID, got empty string")
	}
	if len(raw) > 317 {
		return "", errors.New("NSID is too long (317 chars max)")
	}
	if !nsidRegex.MatchString(raw) {
		return "", errors.New("NSID syntax didn't validate via regex")
	}
	return NSID(raw), nil
}

func (n NSID) String() string {
	return string(n)
}

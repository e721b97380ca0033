package blocklist

import (
	"sort"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// Set of canonical account identifiers.
type AccountSet map[syntax.DID]struct{}

func NewAccountSet(dids ...syntax.DID) AccountSet {
	s := make(AccountSet, len(dids))
	for _, d := range dids {
		s.Add(d)
	}
	return s
}

func (s AccountSet) Add(did syntax.DID) {
	s[did] = struct{}{}
}

func (s AccountSet) Has(did syntax.DID) bool {
	_, ok := s[did]
	return ok
}

func (s AccountSet) Len() int {
	return len(s)
}

// Adds every member of other to s, in place.
func (s AccountSet) Union(other AccountSet) {
	for d := range other {
		s.Add(d)
	}
}

// Returns a new set with the members of s which are not in other.
func (s AccountSet) Difference(other AccountSet) AccountSet {
	out := make(AccountSet)
	for d := range s {
		if !other.Has(d) {
			out.Add(d)
		}
	}
	return out
}

// Members in lexical order, for stable output.
func (s AccountSet) Sorted() []syntax.DID {
	out := make([]syntax.DID, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

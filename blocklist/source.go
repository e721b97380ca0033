package blocklist

import (
	"fmt"
	"strings"

	"github.com/bluesky-social/earmuffs/api/bsky"
	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

type SourceKind int

const (
	SourceFollowersOf SourceKind = iota + 1
	SourceFollowsOf
	SourceLiteral
)

func (k SourceKind) String() string {
	switch k {
	case SourceFollowersOf:
		return "followers-of"
	case SourceFollowsOf:
		return "follows-of"
	case SourceLiteral:
		return "literal"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// Describes how to compute a set of accounts. Exactly one of Actor (for the relationship kinds) or Accounts (for [SourceLiteral]) is meaningful, depending on Kind.
//
// Construct with [FollowersOf], [FollowsOf], or [Literal]. Values should be treated as immutable.
type Source struct {
	Kind     SourceKind
	Actor    syntax.AtIdentifier
	Accounts []syntax.AtIdentifier
}

// All accounts which follow actor.
func FollowersOf(actor syntax.AtIdentifier) Source {
	return Source{Kind: SourceFollowersOf, Actor: actor}
}

// All accounts which actor follows.
func FollowsOf(actor syntax.AtIdentifier) Source {
	return Source{Kind: SourceFollowsOf, Actor: actor}
}

// Exactly the given accounts.
func Literal(accounts ...syntax.AtIdentifier) Source {
	return Source{Kind: SourceLiteral, Accounts: append([]syntax.AtIdentifier(nil), accounts...)}
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFollowersOf, SourceFollowsOf:
		return s.Kind.String() + ":" + s.Actor.String()
	case SourceLiteral:
		refs := make([]string, len(s.Accounts))
		for i, a := range s.Accounts {
			refs[i] = a.String()
		}
		return "literal:[" + strings.Join(refs, ",") + "]"
	default:
		return s.Kind.String()
	}
}

func (s Source) Validate() error {
	switch s.Kind {
	case SourceFollowersOf, SourceFollowsOf:
		if _, err := syntax.ParseAtIdentifier(s.Actor.String()); err != nil {
			return fmt.Errorf("%s: %w", s.Kind, err)
		}
	case SourceLiteral:
		for _, a := range s.Accounts {
			if _, err := syntax.ParseAtIdentifier(a.String()); err != nil {
				return fmt.Errorf("%s: %w", s.Kind, err)
			}
		}
	default:
		return fmt.Errorf("unknown source kind: %d", int(s.Kind))
	}
	return nil
}

// List purpose, stored on the list record.
type Purpose string

const (
	PurposeModeration Purpose = "modlist"
	PurposeCuration   Purpose = "curatelist"
)

// Parses either the short form ("modlist") or the full lexicon token ("app.bsky.graph.defs#modlist"). Empty string gives [PurposeModeration].
func ParsePurpose(raw string) (Purpose, error) {
	switch raw {
	case "", string(PurposeModeration), bsky.GraphDefs_Modlist:
		return PurposeModeration, nil
	case string(PurposeCuration), bsky.GraphDefs_Curatelist:
		return PurposeCuration, nil
	}
	return "", fmt.Errorf("unsupported list purpose: %q", raw)
}

// Full lexicon token for this purpose, as used in list records.
func (p Purpose) Token() string {
	if p == PurposeCuration {
		return bsky.GraphDefs_Curatelist
	}
	return bsky.GraphDefs_Modlist
}

// Declarative specification of a single list.
type BlocklistSpec struct {
	Name        string
	Purpose     Purpose
	Description string
	Includes    []Source
	Excludes    []Source
}

func (spec BlocklistSpec) Validate() error {
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("list name is required")
	}
	if spec.Purpose != "" {
		if _, err := ParsePurpose(string(spec.Purpose)); err != nil {
			return fmt.Errorf("list %q: %w", spec.Name, err)
		}
	}
	for _, src := range spec.Includes {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("list %q include: %w", spec.Name, err)
		}
	}
	for _, src := range spec.Excludes {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("list %q exclude: %w", spec.Name, err)
		}
	}
	return nil
}

// Reference to an existing remote list.
type ListHandle struct {
	Name    string
	URI     syntax.ATURI
	Purpose Purpose
}

// One list item record: the subject account, and the AT-URI of the record (needed for deletion).
type MembershipRecord struct {
	Member syntax.DID
	URI    syntax.ATURI
}

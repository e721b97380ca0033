package blocklist

import (
	"context"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// One page of results from a cursor-paginated query. An empty Cursor means there are no further pages.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// Read access to the social graph and to lists. Every method fetches a single page; cursor is empty for the first page.
type Remote interface {
	GetFollowers(ctx context.Context, actor syntax.DID, cursor string) (*Page[syntax.DID], error)
	GetFollows(ctx context.Context, actor syntax.DID, cursor string) (*Page[syntax.DID], error)
	GetListItems(ctx context.Context, list syntax.ATURI, cursor string) (*Page[MembershipRecord], error)
	GetLists(ctx context.Context, owner syntax.DID, cursor string) (*Page[ListHandle], error)
}

// Write access to the authenticated account's lists.
type ListMutator interface {
	CreateList(ctx context.Context, name string, purpose Purpose, description string) (*ListHandle, error)
	AddMember(ctx context.Context, list ListHandle, account syntax.DID) error
	RemoveMember(ctx context.Context, list ListHandle, rec MembershipRecord) error
}

package blocklist

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// In-memory [Remote] and [ListMutator], for tests. Paginates with numeric offsets so callers exercise the cursor loop. Errors in the Fail* maps are returned by the matching operation.
type FakeRemote struct {
	mu sync.Mutex

	Account  syntax.DID
	PageSize int

	Followers map[syntax.DID][]syntax.DID
	Follows   map[syntax.DID][]syntax.DID
	Lists     []ListHandle
	Items     map[syntax.ATURI][]MembershipRecord

	FailGraph  map[syntax.DID]error
	FailAdd    map[syntax.DID]error
	FailRemove map[syntax.ATURI]error
	FailCreate error

	// number of page requests and mutations, for asserting on what was (not) fetched or written
	GraphRequests int
	Mutations     int

	seq int
}

var _ Remote = (*FakeRemote)(nil)
var _ ListMutator = (*FakeRemote)(nil)

func NewFakeRemote(account syntax.DID) *FakeRemote {
	return &FakeRemote{
		Account:    account,
		PageSize:   2,
		Followers:  make(map[syntax.DID][]syntax.DID),
		Follows:    make(map[syntax.DID][]syntax.DID),
		Items:      make(map[syntax.ATURI][]MembershipRecord),
		FailGraph:  make(map[syntax.DID]error),
		FailAdd:    make(map[syntax.DID]error),
		FailRemove: make(map[syntax.ATURI]error),
	}
}

func fakePage[T any](items []T, cursor string, size int) (*Page[T], error) {
	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 || n > len(items) {
			return nil, fmt.Errorf("bad cursor: %q", cursor)
		}
		offset = n
	}
	if size <= 0 {
		size = len(items)
	}
	end := min(offset+size, len(items))
	page := &Page[T]{Items: slices.Clone(items[offset:end])}
	if end < len(items) {
		page.Cursor = strconv.Itoa(end)
	}
	return page, nil
}

func (f *FakeRemote) nextURI(collection string) syntax.ATURI {
	f.seq++
	return syntax.ATURI(fmt.Sprintf("at://%s/%s/fake%d", f.Account, collection, f.seq))
}

func (f *FakeRemote) GetFollowers(ctx context.Context, actor syntax.DID, cursor string) (*Page[syntax.DID], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GraphRequests++
	if err := f.FailGraph[actor]; err != nil {
		return nil, err
	}
	return fakePage(f.Followers[actor], cursor, f.PageSize)
}

func (f *FakeRemote) GetFollows(ctx context.Context, actor syntax.DID, cursor string) (*Page[syntax.DID], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GraphRequests++
	if err := f.FailGraph[actor]; err != nil {
		return nil, err
	}
	return fakePage(f.Follows[actor], cursor, f.PageSize)
}

func (f *FakeRemote) GetListItems(ctx context.Context, list syntax.ATURI, cursor string) (*Page[MembershipRecord], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakePage(f.Items[list], cursor, f.PageSize)
}

func (f *FakeRemote) GetLists(ctx context.Context, owner syntax.DID, cursor string) (*Page[ListHandle], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if owner != f.Account {
		return &Page[ListHandle]{}, nil
	}
	return fakePage(f.Lists, cursor, f.PageSize)
}

func (f *FakeRemote) CreateList(ctx context.Context, name string, purpose Purpose, description string) (*ListHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Mutations++
	if f.FailCreate != nil {
		return nil, f.FailCreate
	}
	lh := ListHandle{Name: name, URI: f.nextURI(listCollection), Purpose: purpose}
	f.Lists = append(f.Lists, lh)
	return &lh, nil
}

// Adds a list and returns its handle, without counting as a mutation.
func (f *FakeRemote) InsertList(name string, members ...syntax.DID) ListHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	lh := ListHandle{Name: name, URI: f.nextURI(listCollection), Purpose: PurposeModeration}
	f.Lists = append(f.Lists, lh)
	for _, did := range members {
		f.Items[lh.URI] = append(f.Items[lh.URI], MembershipRecord{Member: did, URI: f.nextURI(listitemCollection)})
	}
	return lh
}

func (f *FakeRemote) AddMember(ctx context.Context, list ListHandle, account syntax.DID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Mutations++
	if err := f.FailAdd[account]; err != nil {
		return err
	}
	f.Items[list.URI] = append(f.Items[list.URI], MembershipRecord{Member: account, URI: f.nextURI(listitemCollection)})
	return nil
}

func (f *FakeRemote) RemoveMember(ctx context.Context, list ListHandle, rec MembershipRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Mutations++
	if err := f.FailRemove[rec.URI]; err != nil {
		return err
	}
	items := f.Items[list.URI]
	idx := slices.Index(items, rec)
	if idx < 0 {
		return fmt.Errorf("record not found: %s", rec.URI)
	}
	f.Items[list.URI] = slices.Delete(items, idx, idx+1)
	return nil
}

// Current members of the list, sorted, with duplicates preserved.
func (f *FakeRemote) Members(list syntax.ATURI) []syntax.DID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]syntax.DID, 0, len(f.Items[list]))
	for _, rec := range f.Items[list] {
		out = append(out, rec.Member)
	}
	slices.Sort(out)
	return out
}

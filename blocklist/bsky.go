package blocklist

import (
	"context"
	"fmt"

	comatproto "github.com/bluesky-social/earmuffs/api/atproto"
	"github.com/bluesky-social/earmuffs/api/bsky"
	"github.com/bluesky-social/earmuffs/atproto/syntax"
	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

const (
	listCollection     = "app.bsky.graph.list"
	listitemCollection = "app.bsky.graph.listitem"

	// largest page the AppView graph endpoints accept
	defaultPageSize = 100
)

// [Remote] and [ListMutator] implemented over XRPC. Reads go to whatever host the client points at (a PDS proxies app.bsky queries to the AppView); writes go to Account's repository, so the client must be authenticated as Account.
type BskyRemote struct {
	Client  lexutil.LexClient
	Account syntax.DID
	// Requested page size; the server may return fewer items. Zero means the server maximum.
	PageSize int64
}

var _ Remote = (*BskyRemote)(nil)
var _ ListMutator = (*BskyRemote)(nil)

func (br *BskyRemote) pageSize() int64 {
	if br.PageSize > 0 {
		return br.PageSize
	}
	return defaultPageSize
}

func derefCursor(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}

func parseProfileDIDs(profiles []*bsky.ActorDefs_ProfileView) ([]syntax.DID, error) {
	out := make([]syntax.DID, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		did, err := syntax.ParseDID(p.Did)
		if err != nil {
			return nil, fmt.Errorf("invalid account DID in response: %w", err)
		}
		out = append(out, did)
	}
	return out, nil
}

func (br *BskyRemote) GetFollowers(ctx context.Context, actor syntax.DID, cursor string) (*Page[syntax.DID], error) {
	resp, err := bsky.GraphGetFollowers(ctx, br.Client, actor.String(), cursor, br.pageSize())
	if err != nil {
		return nil, err
	}
	dids, err := parseProfileDIDs(resp.Followers)
	if err != nil {
		return nil, err
	}
	return &Page[syntax.DID]{Items: dids, Cursor: derefCursor(resp.Cursor)}, nil
}

func (br *BskyRemote) GetFollows(ctx context.Context, actor syntax.DID, cursor string) (*Page[syntax.DID], error) {
	resp, err := bsky.GraphGetFollows(ctx, br.Client, actor.String(), cursor, br.pageSize())
	if err != nil {
		return nil, err
	}
	dids, err := parseProfileDIDs(resp.Follows)
	if err != nil {
		return nil, err
	}
	return &Page[syntax.DID]{Items: dids, Cursor: derefCursor(resp.Cursor)}, nil
}

func (br *BskyRemote) GetListItems(ctx context.Context, list syntax.ATURI, cursor string) (*Page[MembershipRecord], error) {
	resp, err := bsky.GraphGetList(ctx, br.Client, cursor, br.pageSize(), list.String())
	if err != nil {
		return nil, err
	}
	items := make([]MembershipRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Subject == nil {
			continue
		}
		did, err := syntax.ParseDID(item.Subject.Did)
		if err != nil {
			return nil, fmt.Errorf("invalid list item subject: %w", err)
		}
		uri, err := syntax.ParseATURI(item.Uri)
		if err != nil {
			return nil, fmt.Errorf("invalid list item URI: %w", err)
		}
		items = append(items, MembershipRecord{Member: did, URI: uri})
	}
	return &Page[MembershipRecord]{Items: items, Cursor: derefCursor(resp.Cursor)}, nil
}

func (br *BskyRemote) GetLists(ctx context.Context, owner syntax.DID, cursor string) (*Page[ListHandle], error) {
	resp, err := bsky.GraphGetLists(ctx, br.Client, owner.String(), cursor, br.pageSize())
	if err != nil {
		return nil, err
	}
	lists := make([]ListHandle, 0, len(resp.Lists))
	for _, lv := range resp.Lists {
		if lv == nil {
			continue
		}
		uri, err := syntax.ParseATURI(lv.Uri)
		if err != nil {
			return nil, fmt.Errorf("invalid list URI: %w", err)
		}
		var purpose Purpose
		if lv.Purpose != nil {
			// other purposes (eg, reference lists) are passed through as-is
			if p, err := ParsePurpose(*lv.Purpose); err == nil {
				purpose = p
			} else {
				purpose = Purpose(*lv.Purpose)
			}
		}
		lists = append(lists, ListHandle{Name: lv.Name, URI: uri, Purpose: purpose})
	}
	return &Page[ListHandle]{Items: lists, Cursor: derefCursor(resp.Cursor)}, nil
}

func (br *BskyRemote) CreateList(ctx context.Context, name string, purpose Purpose, description string) (*ListHandle, error) {
	if purpose == "" {
		purpose = PurposeModeration
	}
	token := purpose.Token()
	rec := bsky.GraphList{
		LexiconTypeID: listCollection,
		CreatedAt:     syntax.DatetimeNow().String(),
		Name:          name,
		Purpose:       &token,
	}
	if description != "" {
		rec.Description = &description
	}
	resp, err := comatproto.RepoCreateRecord(ctx, br.Client, &comatproto.RepoCreateRecord_Input{
		Collection: listCollection,
		Repo:       br.Account.String(),
		Record:     &rec,
	})
	if err != nil {
		return nil, err
	}
	uri, err := syntax.ParseATURI(resp.Uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI for created list: %w", err)
	}
	return &ListHandle{Name: name, URI: uri, Purpose: purpose}, nil
}

func (br *BskyRemote) AddMember(ctx context.Context, list ListHandle, account syntax.DID) error {
	rec := bsky.GraphListitem{
		LexiconTypeID: listitemCollection,
		CreatedAt:     syntax.DatetimeNow().String(),
		List:          list.URI.String(),
		Subject:       account.String(),
	}
	_, err := comatproto.RepoCreateRecord(ctx, br.Client, &comatproto.RepoCreateRecord_Input{
		Collection: listitemCollection,
		Repo:       br.Account.String(),
		Record:     &rec,
	})
	return err
}

// Deletes the list item record. The record must live in Account's repository.
func (br *BskyRemote) RemoveMember(ctx context.Context, list ListHandle, rec MembershipRecord) error {
	authority, err := rec.URI.Authority()
	if err != nil {
		return err
	}
	if authority.String() != br.Account.String() {
		return fmt.Errorf("list item %s is not in repository %s", rec.URI, br.Account)
	}
	collection, err := rec.URI.Collection()
	if err != nil {
		return err
	}
	if collection.String() != listitemCollection {
		return fmt.Errorf("not a list item record: %s", rec.URI)
	}
	rkey, err := rec.URI.RecordKey()
	if err != nil {
		return err
	}
	return comatproto.RepoDeleteRecord(ctx, br.Client, &comatproto.RepoDeleteRecord_Input{
		Collection: listitemCollection,
		Repo:       br.Account.String(),
		Rkey:       rkey.String(),
	})
}

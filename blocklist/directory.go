package blocklist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// Looks up the lists owned by an account.
type ListDirectory struct {
	Remote  Remote
	Account syntax.DID
	Logger  *slog.Logger
}

func (ld *ListDirectory) logger() *slog.Logger {
	if ld.Logger != nil {
		return ld.Logger
	}
	return slog.Default()
}

// Fetches all of the account's lists, indexed by name. If two lists share a name, the first one returned by the server wins.
func (ld *ListDirectory) OwnedLists(ctx context.Context) (map[string]ListHandle, error) {
	out := make(map[string]ListHandle)
	visit := func(lh ListHandle) {
		if prev, ok := out[lh.Name]; ok {
			ld.logger().Warn("multiple lists with the same name, using the first", "name", lh.Name, "uri", prev.URI, "ignored", lh.URI)
			return
		}
		out[lh.Name] = lh
	}
	fetch := func(ctx context.Context, cursor string) (*Page[ListHandle], error) {
		return ld.Remote.GetLists(ctx, ld.Account, cursor)
	}
	if err := paginate(ctx, "app.bsky.graph.getLists", ld.Account.String(), fetch, visit); err != nil {
		return nil, err
	}
	return out, nil
}

// Returns the named list from an index built by [ListDirectory.OwnedLists], or an error wrapping [ErrListNotFound].
func FindList(lists map[string]ListHandle, name string) (ListHandle, error) {
	lh, ok := lists[name]
	if !ok {
		return ListHandle{}, fmt.Errorf("%w: %q", ErrListNotFound, name)
	}
	return lh, nil
}

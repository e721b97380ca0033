package blocklist

import (
	"errors"
	"fmt"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// Indicates that a configured list name has no corresponding list owned by the account.
var ErrListNotFound = errors.New("list not found")

// An account reference from a source could not be resolved to a DID.
type ResolutionError struct {
	Ref syntax.AtIdentifier
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving account %s: %v", e.Ref, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// A paginated query failed part-way. No partial results are returned along with this error.
type FetchError struct {
	Endpoint string
	Subject  string
	// cursor of the page which failed (empty for the first page)
	Cursor string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Cursor != "" {
		return fmt.Sprintf("fetching %s for %s (cursor %q): %v", e.Endpoint, e.Subject, e.Cursor, e.Err)
	}
	return fmt.Sprintf("fetching %s for %s: %v", e.Endpoint, e.Subject, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type MutationOp string

const (
	OpCreateList   MutationOp = "create-list"
	OpAddMember    MutationOp = "add"
	OpRemoveMember MutationOp = "remove"
)

// A single remote write failed.
type MutationError struct {
	Op   MutationOp
	List string
	// set for OpAddMember and OpRemoveMember
	Account syntax.DID
	// set for OpRemoveMember
	Record syntax.ATURI
	Err    error
}

func (e *MutationError) Error() string {
	switch e.Op {
	case OpAddMember:
		return fmt.Sprintf("adding %s to list %q: %v", e.Account, e.List, e.Err)
	case OpRemoveMember:
		return fmt.Sprintf("removing %s (%s) from list %q: %v", e.Account, e.Record, e.List, e.Err)
	default:
		return fmt.Sprintf("%s %q: %v", e.Op, e.List, e.Err)
	}
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

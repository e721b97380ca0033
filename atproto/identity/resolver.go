package identity

import (
	"context"
	"errors"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// Resolves handles to the canonical account identifier (DID).
type Resolver interface {
	ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error)
}

// Indicates that resolution process completed successfully, but handle does not exist.
var ErrHandleNotFound = errors.New("handle not found")

// Indicates that handle resolution failed. A wrapped error may provide more context.
var ErrHandleResolutionFailed = errors.New("handle resolution failed")

// Handle was invalid, in a situation where a valid handle is required.
var ErrInvalidHandle = errors.New("invalid handle")

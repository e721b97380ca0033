package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
)

// A fake handle resolver, for use in tests. Counts calls so tests can check caching behavior.
type MockResolver struct {
	mu      sync.RWMutex
	Handles map[syntax.Handle]syntax.DID
	Calls   int
}

var _ Resolver = (*MockResolver)(nil)

func NewMockResolver() *MockResolver {
	return &MockResolver{
		Handles: make(map[syntax.Handle]syntax.DID),
	}
}

func (r *MockResolver) Insert(h syntax.Handle, did syntax.DID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Handles[h.Normalize()] = did
}

func (r *MockResolver) ResolveHandle(ctx context.Context, h syntax.Handle) (syntax.DID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	did, ok := r.Handles[h.Normalize()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrHandleNotFound, h)
	}
	return did, nil
}

func (r *MockResolver) CallCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Calls
}

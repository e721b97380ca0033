package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bluesky-social/earmuffs/atproto/syntax"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Caching layer over another [Resolver]. Successful resolutions are kept for the hit TTL. "Not found" results are kept for the (shorter) error TTL. Other errors (transport failures) are not cached.
//
// Concurrent lookups of the same handle are coalesced in to a single request to the inner resolver.
type CacheResolver struct {
	Inner  Resolver
	ErrTTL time.Duration

	handleCache       *expirable.LRU[syntax.Handle, handleEntry]
	handleLookupChans sync.Map
}

type handleEntry struct {
	Updated time.Time
	DID     syntax.DID
	Err     error
}

var _ Resolver = (*CacheResolver)(nil)

// Capacity of zero means unlimited size. Similarly, ttl of zero means unlimited duration.
func NewCacheResolver(inner Resolver, capacity int, hitTTL, errTTL time.Duration) *CacheResolver {
	return &CacheResolver{
		Inner:       inner,
		ErrTTL:      errTTL,
		handleCache: expirable.NewLRU[syntax.Handle, handleEntry](capacity, nil, hitTTL),
	}
}

func (r *CacheResolver) isStale(e *handleEntry) bool {
	return e.Err != nil && time.Since(e.Updated) > r.ErrTTL
}

func (r *CacheResolver) updateHandle(ctx context.Context, h syntax.Handle) handleEntry {
	did, err := r.Inner.ResolveHandle(ctx, h)
	entry := handleEntry{
		Updated: time.Now(),
		DID:     did,
		Err:     err,
	}
	if err == nil || errors.Is(err, ErrHandleNotFound) {
		r.handleCache.Add(h, entry)
	}
	return entry
}

func (r *CacheResolver) ResolveHandle(ctx context.Context, h syntax.Handle) (syntax.DID, error) {
	if h.IsInvalidHandle() {
		return "", fmt.Errorf("can not resolve handle: %w", ErrInvalidHandle)
	}
	h = h.Normalize()

	entry, ok := r.handleCache.Get(h)
	if ok && !r.isStale(&entry) {
		handleCacheHits.Inc()
		return entry.DID, entry.Err
	}
	handleCacheMisses.Inc()

	// Coalesce multiple requests for the same handle
	res := make(chan struct{})
	val, loaded := r.handleLookupChans.LoadOrStore(h.String(), res)
	if loaded {
		handleRequestsCoalesced.Inc()
		select {
		case <-val.(chan struct{}):
			entry, ok := r.handleCache.Get(h)
			if ok && !r.isStale(&entry) {
				return entry.DID, entry.Err
			}
			// the pending request failed without a cacheable result; try directly
			return r.Inner.ResolveHandle(ctx, h)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	newEntry := r.updateHandle(ctx, h)

	// callers waiting will now get the result from the cache
	r.handleLookupChans.Delete(h.String())
	close(res)

	return newEntry.DID, newEntry.Err
}

// Flushes any cached entry for the handle.
func (r *CacheResolver) Purge(h syntax.Handle) {
	r.handleCache.Remove(h.Normalize())
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	comatproto "github.com/bluesky-social/earmuffs/api/atproto"
	"github.com/bluesky-social/earmuffs/atproto/client"
	"github.com/bluesky-social/earmuffs/atproto/syntax"
	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

// Resolves handles with the "com.atproto.identity.resolveHandle" endpoint on an API host, usually the account's own PDS.
//
// The host does the actual DNS/HTTPS handle verification; this is the same trust model as any client app.
type APIResolver struct {
	Client lexutil.LexClient
}

var _ Resolver = (*APIResolver)(nil)

func (r *APIResolver) ResolveHandle(ctx context.Context, h syntax.Handle) (syntax.DID, error) {
	if h.IsInvalidHandle() {
		return "", fmt.Errorf("can not resolve handle: %w", ErrInvalidHandle)
	}
	h = h.Normalize()
	start := time.Now()
	out, err := comatproto.IdentityResolveHandle(ctx, r.Client, h.String())
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			handleResolution.WithLabelValues("api", "notfound").Inc()
			handleResolutionDuration.WithLabelValues("api", "notfound").Observe(time.Since(start).Seconds())
			return "", fmt.Errorf("%w: %s (%s)", ErrHandleNotFound, h, apiErr.Message)
		}
		handleResolution.WithLabelValues("api", "error").Inc()
		handleResolutionDuration.WithLabelValues("api", "error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("%w: %s: %w", ErrHandleResolutionFailed, h, err)
	}
	did, err := syntax.ParseDID(out.Did)
	if err != nil {
		handleResolution.WithLabelValues("api", "invalid").Inc()
		return "", fmt.Errorf("%w: %s: invalid DID in response: %w", ErrHandleResolutionFailed, h, err)
	}
	handleResolution.WithLabelValues("api", "success").Inc()
	handleResolutionDuration.WithLabelValues("api", "success").Observe(time.Since(start).Seconds())
	return did, nil
}

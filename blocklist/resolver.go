package blocklist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bluesky-social/earmuffs/atproto/identity"
	"github.com/bluesky-social/earmuffs/atproto/syntax"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("blocklist")

type Relation int

const (
	Followers Relation = iota + 1
	Follows
)

func (r Relation) String() string {
	switch r {
	case Followers:
		return "followers"
	case Follows:
		return "follows"
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Turns sources and blocklist specifications in to sets of DIDs. Holds no state between calls: nothing is cached here, though the identity resolver may cache handles.
type Resolver struct {
	Remote   Remote
	Identity identity.Resolver
	Logger   *slog.Logger
	// Max number of sources resolved concurrently within one blocklist. Zero or one means sequential.
	Parallelism int
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Resolves an account reference to a DID. DIDs are returned as-is, handles go through the identity resolver.
func (r *Resolver) ResolveAccount(ctx context.Context, ref syntax.AtIdentifier) (syntax.DID, error) {
	if ref.IsDID() {
		did, err := syntax.ParseDID(ref.String())
		if err != nil {
			return "", &ResolutionError{Ref: ref, Err: err}
		}
		return did, nil
	}
	h, err := syntax.ParseHandle(ref.String())
	if err != nil {
		return "", &ResolutionError{Ref: ref, Err: fmt.Errorf("%w: %w", identity.ErrInvalidHandle, err)}
	}
	did, err := r.Identity.ResolveHandle(ctx, h.Normalize())
	if err != nil {
		return "", &ResolutionError{Ref: ref, Err: err}
	}
	return did, nil
}

// Fetches every account on one side of actor's follow graph, walking all pages. The actor itself is only included if the server returns it.
func (r *Resolver) FetchRelationship(ctx context.Context, rel Relation, actor syntax.AtIdentifier) (AccountSet, error) {
	did, err := r.ResolveAccount(ctx, actor)
	if err != nil {
		return nil, err
	}

	var fetch func(ctx context.Context, cursor string) (*Page[syntax.DID], error)
	var endpoint string
	switch rel {
	case Followers:
		endpoint = "app.bsky.graph.getFollowers"
		fetch = func(ctx context.Context, cursor string) (*Page[syntax.DID], error) {
			return r.Remote.GetFollowers(ctx, did, cursor)
		}
	case Follows:
		endpoint = "app.bsky.graph.getFollows"
		fetch = func(ctx context.Context, cursor string) (*Page[syntax.DID], error) {
			return r.Remote.GetFollows(ctx, did, cursor)
		}
	default:
		return nil, fmt.Errorf("unsupported relation: %s", rel)
	}

	out := make(AccountSet)
	if err := paginate(ctx, endpoint, did.String(), fetch, out.Add); err != nil {
		return nil, err
	}
	r.logger().Debug("fetched relationship", "relation", rel, "actor", actor, "did", did, "count", out.Len())
	return out, nil
}

func (r *Resolver) ResolveSource(ctx context.Context, src Source) (AccountSet, error) {
	switch src.Kind {
	case SourceFollowersOf:
		return r.FetchRelationship(ctx, Followers, src.Actor)
	case SourceFollowsOf:
		return r.FetchRelationship(ctx, Follows, src.Actor)
	case SourceLiteral:
		out := make(AccountSet, len(src.Accounts))
		for _, ref := range src.Accounts {
			did, err := r.ResolveAccount(ctx, ref)
			if err != nil {
				return nil, err
			}
			out.Add(did)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown source kind: %d", int(src.Kind))
	}
}

// Computes the target membership of a list: the union of all includes, minus the union of all excludes. Excludes are not fetched at all if the includes come up empty.
func (r *Resolver) ResolveBlocklist(ctx context.Context, spec BlocklistSpec) (AccountSet, error) {
	ctx, span := tracer.Start(ctx, "ResolveBlocklist")
	defer span.End()
	span.SetAttributes(
		attribute.String("list", spec.Name),
		attribute.Int("includes", len(spec.Includes)),
		attribute.Int("excludes", len(spec.Excludes)),
	)

	included, err := r.resolveUnion(ctx, spec.Includes)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if included.Len() == 0 {
		return included, nil
	}
	excluded, err := r.resolveUnion(ctx, spec.Excludes)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	target := included.Difference(excluded)
	span.SetAttributes(attribute.Int("target", target.Len()))
	r.logger().Debug("resolved blocklist", "list", spec.Name, "included", included.Len(), "excluded", excluded.Len(), "target", target.Len())
	return target, nil
}

func (r *Resolver) resolveUnion(ctx context.Context, sources []Source) (AccountSet, error) {
	sets := make([]AccountSet, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Parallelism))
	for i, src := range sources {
		g.Go(func() error {
			set, err := r.ResolveSource(ctx, src)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", src, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(AccountSet)
	for _, s := range sets {
		out.Union(s)
	}
	return out, nil
}

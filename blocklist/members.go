package blocklist

import (
	"context"
	"log/slog"

	"github.com/bluesky-social/earmuffs/atproto/syntax"

	"go.opentelemetry.io/otel/attribute"
)

// Current membership of a list. Each subject appears at most once in Members; any further list item records for the same subject end up in Duplicates.
type Membership struct {
	Members    map[syntax.DID]MembershipRecord
	Duplicates []MembershipRecord
}

func (m *Membership) Accounts() AccountSet {
	out := make(AccountSet, len(m.Members))
	for did := range m.Members {
		out.Add(did)
	}
	return out
}

// Reads the current members of lists.
type MemberReader struct {
	Remote Remote
	Logger *slog.Logger
}

func (mr *MemberReader) logger() *slog.Logger {
	if mr.Logger != nil {
		return mr.Logger
	}
	return slog.Default()
}

// Fetches every item on the list. The first record seen for a subject is kept, later ones are duplicates.
func (mr *MemberReader) ReadMembers(ctx context.Context, list ListHandle) (*Membership, error) {
	ctx, span := tracer.Start(ctx, "ReadMembers")
	defer span.End()
	span.SetAttributes(attribute.String("list", list.Name), attribute.String("uri", list.URI.String()))

	m := &Membership{Members: make(map[syntax.DID]MembershipRecord)}
	visit := func(rec MembershipRecord) {
		if _, ok := m.Members[rec.Member]; ok {
			m.Duplicates = append(m.Duplicates, rec)
			return
		}
		m.Members[rec.Member] = rec
	}
	fetch := func(ctx context.Context, cursor string) (*Page[MembershipRecord], error) {
		return mr.Remote.GetListItems(ctx, list.URI, cursor)
	}
	if err := paginate(ctx, "app.bsky.graph.getList", list.URI.String(), fetch, visit); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(m.Duplicates) > 0 {
		mr.logger().Warn("list has duplicate items", "list", list.Name, "duplicates", len(m.Duplicates))
	}
	span.SetAttributes(attribute.Int("members", len(m.Members)))
	return m, nil
}

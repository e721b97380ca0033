package blocklist

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// Mutations needed to bring a list in line with its target set.
type Plan struct {
	ToAdd    AccountSet
	ToRemove []MembershipRecord
}

func (p *Plan) IsEmpty() bool {
	return p.ToAdd.Len() == 0 && len(p.ToRemove) == 0
}

// Total number of mutations in the plan.
func (p *Plan) Len() int {
	return p.ToAdd.Len() + len(p.ToRemove)
}

// Computes the minimal plan: add every target account not already a member, remove every member not in the target, and remove all duplicate records.
func Reconcile(target AccountSet, current *Membership) *Plan {
	plan := &Plan{ToAdd: make(AccountSet)}
	for did := range target {
		if _, ok := current.Members[did]; !ok {
			plan.ToAdd.Add(did)
		}
	}
	for did, rec := range current.Members {
		if !target.Has(did) {
			plan.ToRemove = append(plan.ToRemove, rec)
		}
	}
	plan.ToRemove = append(plan.ToRemove, current.Duplicates...)
	sort.Slice(plan.ToRemove, func(i, j int) bool {
		return plan.ToRemove[i].URI < plan.ToRemove[j].URI
	})
	return plan
}

type ApplyResult struct {
	Added   int
	Removed int
	Failed  int
	// operations never attempted because the context was cancelled
	Skipped int
}

// Applies plans through a [ListMutator], best-effort.
type Applier struct {
	Mutator ListMutator
	// Optional throttle on mutations.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

func (a *Applier) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Runs every operation in the plan. A failed operation is logged and recorded, and does not stop the others. The returned error aggregates every [MutationError], plus the context error if the run was cut short.
func (a *Applier) Apply(ctx context.Context, list ListHandle, plan *Plan) (ApplyResult, error) {
	ctx, span := tracer.Start(ctx, "Apply")
	defer span.End()
	span.SetAttributes(
		attribute.String("list", list.Name),
		attribute.Int("add", plan.ToAdd.Len()),
		attribute.Int("remove", len(plan.ToRemove)),
	)

	logger := a.logger().With("list", list.Name)
	var res ApplyResult
	var errs error
	remaining := plan.Len()

	// non-nil once no further operations should be attempted
	var stopErr error
	proceed := func() bool {
		if stopErr == nil {
			stopErr = ctx.Err()
		}
		if stopErr == nil && a.Limiter != nil {
			stopErr = a.Limiter.Wait(ctx)
		}
		return stopErr == nil
	}

	for _, did := range plan.ToAdd.Sorted() {
		if !proceed() {
			break
		}
		remaining--
		if err := a.Mutator.AddMember(ctx, list, did); err != nil {
			logger.Warn("failed to add list member", "did", did, "err", err)
			mutationsApplied.WithLabelValues(string(OpAddMember), "error").Inc()
			res.Failed++
			errs = multierr.Append(errs, &MutationError{Op: OpAddMember, List: list.Name, Account: did, Err: err})
			continue
		}
		mutationsApplied.WithLabelValues(string(OpAddMember), "ok").Inc()
		logger.Debug("added list member", "did", did)
		res.Added++
	}

	if stopErr == nil {
		for _, rec := range plan.ToRemove {
			if !proceed() {
				break
			}
			remaining--
			if err := a.Mutator.RemoveMember(ctx, list, rec); err != nil {
				logger.Warn("failed to remove list member", "did", rec.Member, "uri", rec.URI, "err", err)
				mutationsApplied.WithLabelValues(string(OpRemoveMember), "error").Inc()
				res.Failed++
				errs = multierr.Append(errs, &MutationError{Op: OpRemoveMember, List: list.Name, Account: rec.Member, Record: rec.URI, Err: err})
				continue
			}
			mutationsApplied.WithLabelValues(string(OpRemoveMember), "ok").Inc()
			logger.Debug("removed list member", "did", rec.Member, "uri", rec.URI)
			res.Removed++
		}
	}

	res.Skipped = remaining
	if res.Skipped > 0 {
		errs = multierr.Append(errs, stopErr)
		logger.Warn("list sync interrupted", "skipped", res.Skipped)
	}
	span.SetAttributes(
		attribute.Int("added", res.Added),
		attribute.Int("removed", res.Removed),
		attribute.Int("failed", res.Failed),
		attribute.Int("skipped", res.Skipped),
	)
	if errs != nil {
		span.RecordError(errs)
	}
	return res, errs
}

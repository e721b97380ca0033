package blocklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type ListStatus string

const (
	// list membership matches the target (possibly after mutations)
	StatusSynced ListStatus = "synced"
	// some mutations failed, or the run was interrupted while applying
	StatusPartial ListStatus = "partial"
	// list did not exist and was created; it will be reconciled on the next run
	StatusCreated ListStatus = "created"
	// dry run; plan computed but not applied
	StatusPlanned ListStatus = "planned"
	// dry run and the list does not exist yet
	StatusMissing ListStatus = "missing"
	// resolution, fetch, or list creation failed; nothing was applied
	StatusFailed ListStatus = "failed"
)

type ListResult struct {
	Name   string
	Status ListStatus
	List   ListHandle
	// size of the resolved target set
	Target int
	Plan   *Plan
	Result ApplyResult
	Err    error
}

type RunReport struct {
	Lists []ListResult
}

// Aggregate error for the run: nil unless some list failed or some mutation failed.
func (rr *RunReport) Err() error {
	var errs error
	for _, lr := range rr.Lists {
		if lr.Err == nil {
			continue
		}
		errs = multierr.Append(errs, fmt.Errorf("list %q: %w", lr.Name, lr.Err))
	}
	return errs
}

// Logs a one-line summary for each list.
func (rr *RunReport) Log(logger *slog.Logger) {
	for _, lr := range rr.Lists {
		args := []any{"list", lr.Name, "status", lr.Status, "target", lr.Target,
			"added", lr.Result.Added, "removed", lr.Result.Removed, "failed", lr.Result.Failed, "skipped", lr.Result.Skipped}
		if lr.Plan != nil {
			args = append(args, "plan_add", lr.Plan.ToAdd.Len(), "plan_remove", len(lr.Plan.ToRemove))
		}
		if lr.Err != nil {
			logger.Error("list sync failed", append(args, "err", lr.Err)...)
			continue
		}
		logger.Info("list sync complete", args...)
	}
}

// Runs a batch of list syncs. Each list is handled independently: one list failing does not affect the others.
type Runner struct {
	Resolver  *Resolver
	Members   *MemberReader
	Directory *ListDirectory
	Applier   *Applier
	Logger    *slog.Logger

	// compute plans without changing anything, including not creating missing lists
	DryRun bool
	// max number of lists processed concurrently; zero or one means sequential
	Parallelism int
	// if non-empty, only lists with these names are processed
	Only []string
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Processes every spec (filtered by Only), returning a report in the same order as specs. The error is the report's aggregate error, or a failure to fetch the account's lists, in which case the report is nil.
func (r *Runner) Run(ctx context.Context, specs []BlocklistSpec) (*RunReport, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var selected []BlocklistSpec
	for _, spec := range specs {
		if len(r.Only) == 0 || slices.Contains(r.Only, spec.Name) {
			selected = append(selected, spec)
		}
	}
	if len(r.Only) > 0 && len(selected) == 0 {
		return nil, fmt.Errorf("no configured list matches %v", r.Only)
	}
	span.SetAttributes(attribute.Int("lists", len(selected)), attribute.Bool("dry_run", r.DryRun))

	lists, err := r.Directory.OwnedLists(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching account lists: %w", err)
	}

	report := &RunReport{Lists: make([]ListResult, len(selected))}
	var g errgroup.Group
	g.SetLimit(max(1, r.Parallelism))
	for i, spec := range selected {
		g.Go(func() error {
			report.Lists[i] = r.SyncList(ctx, spec, lists)
			return nil
		})
	}
	_ = g.Wait()

	return report, report.Err()
}

// Resolves and reconciles a single list. lists is the account's list index, from [ListDirectory.OwnedLists].
func (r *Runner) SyncList(ctx context.Context, spec BlocklistSpec, lists map[string]ListHandle) ListResult {
	ctx, span := tracer.Start(ctx, "SyncList")
	defer span.End()
	span.SetAttributes(attribute.String("list", spec.Name))

	start := time.Now()
	logger := r.logger().With("list", spec.Name)
	res := r.syncList(ctx, logger, spec, lists)

	listSyncs.WithLabelValues(string(res.Status)).Inc()
	listSyncDuration.WithLabelValues(string(res.Status)).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("status", string(res.Status)))
	if res.Err != nil {
		span.RecordError(res.Err)
	}
	return res
}

func (r *Runner) syncList(ctx context.Context, logger *slog.Logger, spec BlocklistSpec, lists map[string]ListHandle) ListResult {
	res := ListResult{Name: spec.Name}

	list, err := FindList(lists, spec.Name)
	if errors.Is(err, ErrListNotFound) {
		purpose := spec.Purpose
		if purpose == "" {
			purpose = PurposeModeration
		}
		if r.DryRun {
			logger.Info("list does not exist, would create it", "purpose", purpose)
			res.Status = StatusMissing
			return res
		}
		created, err := r.Applier.Mutator.CreateList(ctx, spec.Name, purpose, spec.Description)
		if err != nil {
			res.Status = StatusFailed
			res.Err = &MutationError{Op: OpCreateList, List: spec.Name, Err: err}
			return res
		}
		logger.Info("created list, members will be synced on the next run", "uri", created.URI)
		res.Status = StatusCreated
		res.List = *created
		return res
	}

	res.List = list
	target, err := r.Resolver.ResolveBlocklist(ctx, spec)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Target = target.Len()
	targetSize.WithLabelValues(spec.Name).Set(float64(target.Len()))

	current, err := r.Members.ReadMembers(ctx, list)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	plan := Reconcile(target, current)
	res.Plan = plan
	logger.Info("computed plan", "target", target.Len(), "current", len(current.Members), "add", plan.ToAdd.Len(), "remove", len(plan.ToRemove))
	if r.DryRun {
		res.Status = StatusPlanned
		return res
	}
	if plan.IsEmpty() {
		res.Status = StatusSynced
		return res
	}

	res.Result, err = r.Applier.Apply(ctx, list, plan)
	if err != nil {
		res.Status = StatusPartial
		res.Err = err
		return res
	}
	res.Status = StatusSynced
	return res
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/bluesky-social/earmuffs/blocklist"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
)

var runFlags = []cli.Flag{
	&cli.IntFlag{
		Name:    "parallelism",
		Usage:   "number of lists to process concurrently",
		Value:   1,
		EnvVars: []string{"EARMUFFS_PARALLELISM"},
	},
	&cli.IntFlag{
		Name:    "source-parallelism",
		Usage:   "number of sources to resolve concurrently within a list",
		Value:   4,
		EnvVars: []string{"EARMUFFS_SOURCE_PARALLELISM"},
	},
	&cli.Float64Flag{
		Name:    "write-rate-limit",
		Usage:   "max list mutations per second (0 for no limit)",
		Value:   5,
		EnvVars: []string{"EARMUFFS_WRITE_RATE_LIMIT"},
	},
	&cli.StringSliceFlag{
		Name:  "list",
		Usage: "only process the named list (may be repeated)",
	},
	&cli.StringFlag{
		Name:    "pushgateway-url",
		Usage:   "if set, push run metrics to this Prometheus push gateway",
		EnvVars: []string{"EARMUFFS_PUSHGATEWAY_URL"},
	},
}

var cmdRun = &cli.Command{
	Name:  "run",
	Usage: "reconcile every configured list (the default command)",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:    "dry-run",
			Usage:   "compute and log plans without changing anything",
			EnvVars: []string{"EARMUFFS_DRY_RUN"},
		},
	}, runFlags...),
	Action: func(cctx *cli.Context) error {
		return runLists(cctx, cctx.Bool("dry-run"))
	},
}

var cmdPlan = &cli.Command{
	Name:   "plan",
	Usage:  "show what a run would change, without changing anything",
	Flags:  runFlags,
	Action: func(cctx *cli.Context) error { return runLists(cctx, true) },
}

func newWriteLimiter(perSecond float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func runLists(cctx *cli.Context, dryRun bool) error {
	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := configOTEL(ctx, "earmuffs")
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}
	defer shutdownTracing()

	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	specs, err := cfg.Blocklists()
	if err != nil {
		return err
	}
	c, err := login(ctx, cctx, cfg)
	if err != nil {
		return err
	}

	runner := newRunner(c, runOptions{
		DryRun:            dryRun,
		Parallelism:       cctx.Int("parallelism"),
		SourceParallelism: cctx.Int("source-parallelism"),
		WritesPerSecond:   cctx.Float64("write-rate-limit"),
		Only:              cctx.StringSlice("list"),
	})
	report, runErr := runner.Run(ctx, specs)
	if report != nil {
		report.Log(slog.Default())
		if dryRun {
			printPlans(cctx.App.Writer, report)
		}
	}

	if url := cctx.String("pushgateway-url"); url != "" {
		if err := pushMetrics(context.WithoutCancel(ctx), url); err != nil {
			slog.Error("failed to push metrics", "url", url, "err", err)
		}
	}
	return runErr
}

func pushMetrics(ctx context.Context, url string) error {
	return push.New(url, "earmuffs").Gatherer(prometheus.DefaultGatherer).PushContext(ctx)
}

func printPlans(w io.Writer, report *blocklist.RunReport) {
	for _, lr := range report.Lists {
		switch {
		case lr.Status == blocklist.StatusMissing:
			fmt.Fprintf(w, "list %q: does not exist, would be created\n", lr.Name)
		case lr.Plan == nil:
			fmt.Fprintf(w, "list %q: %s: %v\n", lr.Name, lr.Status, lr.Err)
		default:
			fmt.Fprintf(w, "list %q: %d accounts, %d to add, %d to remove\n", lr.Name, lr.Target, lr.Plan.ToAdd.Len(), len(lr.Plan.ToRemove))
			for _, did := range lr.Plan.ToAdd.Sorted() {
				fmt.Fprintf(w, "  + %s\n", did)
			}
			for _, rec := range lr.Plan.ToRemove {
				fmt.Fprintf(w, "  - %s\t%s\n", rec.Member, rec.URI)
			}
		}
	}
}

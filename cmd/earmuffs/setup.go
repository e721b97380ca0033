package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluesky-social/earmuffs/atproto/client"
	"github.com/bluesky-social/earmuffs/atproto/identity"
	"github.com/bluesky-social/earmuffs/atproto/syntax"
	"github.com/bluesky-social/earmuffs/blocklist"
	"github.com/bluesky-social/earmuffs/config"

	"github.com/urfave/cli/v2"
)

func loadConfig(cctx *cli.Context) (*config.Config, error) {
	path, err := config.FindPath(cctx.String("config"))
	if err != nil {
		return nil, err
	}
	slog.Debug("loading config", "path", path)
	return config.Load(path)
}

// Logs in with the account from flags or the config file, preferring flags. Returns an authenticated client.
func login(ctx context.Context, cctx *cli.Context, cfg *config.Config) (*client.APIClient, error) {
	handle := cctx.String("handle")
	if handle == "" {
		handle = cfg.Auth.Handle
	}
	if handle == "" {
		return nil, fmt.Errorf("no account configured: set auth.handle in the config file, or --handle")
	}
	username, err := syntax.ParseAtIdentifier(handle)
	if err != nil {
		return nil, fmt.Errorf("invalid account handle: %w", err)
	}

	password := cctx.String("app-password")
	if password == "" {
		password = cfg.Auth.AppPassword
	}
	if password == "" {
		return nil, fmt.Errorf("need an app password in the config file or environment ($EARMUFFS_APP_PASSWORD or $EM_APP_PW)")
	}

	host := cctx.String("pds-host")
	if !cctx.IsSet("pds-host") && cfg.Auth.PDSHost != "" {
		host = cfg.Auth.PDSHost
	}

	c := client.NewAPIClient(host)
	c.HTTPClient = client.RobustHTTPClient(slog.Default())
	if _, err := client.LoginWithPassword(ctx, c, username.Normalize(), password, ""); err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", username, err)
	}
	slog.Info("logged in", "account", c.AuthDID(), "host", host)
	return c, nil
}

type runOptions struct {
	DryRun            bool
	Parallelism       int
	SourceParallelism int
	WritesPerSecond   float64
	Only              []string
}

func newRunner(c *client.APIClient, opts runOptions) *blocklist.Runner {
	logger := slog.Default()
	account := c.AuthDID()
	remote := &blocklist.BskyRemote{Client: c, Account: account}
	dir := identity.NewCacheResolver(&identity.APIResolver{Client: c}, 10_000, 30*time.Minute, 2*time.Minute)

	applier := &blocklist.Applier{Mutator: remote, Logger: logger}
	if opts.WritesPerSecond > 0 {
		applier.Limiter = newWriteLimiter(opts.WritesPerSecond)
	}
	return &blocklist.Runner{
		Resolver: &blocklist.Resolver{
			Remote:      remote,
			Identity:    dir,
			Logger:      logger,
			Parallelism: opts.SourceParallelism,
		},
		Members:     &blocklist.MemberReader{Remote: remote, Logger: logger},
		Directory:   &blocklist.ListDirectory{Remote: remote, Account: account, Logger: logger},
		Applier:     applier,
		Logger:      logger,
		DryRun:      opts.DryRun,
		Parallelism: opts.Parallelism,
		Only:        opts.Only,
	}
}

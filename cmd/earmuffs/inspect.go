package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/bluesky-social/earmuffs/blocklist"

	"github.com/urfave/cli/v2"
)

var cmdResolve = &cli.Command{
	Name:      "resolve",
	Usage:     "print the resolved target accounts (DIDs) for a list",
	ArgsUsage: "<list-name>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "source-parallelism",
			Usage: "number of sources to resolve concurrently",
			Value: 4,
		},
	},
	Action: func(cctx *cli.Context) error {
		name := cctx.Args().First()
		if name == "" {
			return fmt.Errorf("need a list name")
		}
		ctx := cctx.Context

		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		specs, err := cfg.Blocklists()
		if err != nil {
			return err
		}
		var spec *blocklist.BlocklistSpec
		for i := range specs {
			if specs[i].Name == name {
				spec = &specs[i]
				break
			}
		}
		if spec == nil {
			return fmt.Errorf("%w in config: %q", blocklist.ErrListNotFound, name)
		}

		c, err := login(ctx, cctx, cfg)
		if err != nil {
			return err
		}
		runner := newRunner(c, runOptions{SourceParallelism: cctx.Int("source-parallelism")})
		target, err := runner.Resolver.ResolveBlocklist(ctx, *spec)
		if err != nil {
			return err
		}
		for _, did := range target.Sorted() {
			fmt.Fprintln(cctx.App.Writer, did)
		}
		return nil
	},
}

var cmdLists = &cli.Command{
	Name:  "lists",
	Usage: "print the lists owned by the account",
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		c, err := login(ctx, cctx, cfg)
		if err != nil {
			return err
		}
		runner := newRunner(c, runOptions{})
		lists, err := runner.Directory.OwnedLists(ctx)
		if err != nil {
			return err
		}
		printLists(cctx.App.Writer, lists)
		return nil
	},
}

func printLists(w io.Writer, lists map[string]blocklist.ListHandle) {
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lh := lists[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", lh.Name, lh.URI, lh.Purpose)
	}
}

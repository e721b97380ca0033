package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "earmuffs",
		Usage:   "keep Bluesky moderation lists in sync with follower graphs",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to config file (JSON or YAML); default ./earmuffs.json, then XDG config dir",
			EnvVars: []string{"EARMUFFS_CONFIG", "EM_FILE"},
		},
		&cli.StringFlag{
			Name:    "handle",
			Usage:   "account handle or DID to log in as (overrides config file)",
			EnvVars: []string{"EARMUFFS_HANDLE"},
		},
		&cli.StringFlag{
			Name:    "app-password",
			Usage:   "app password for login (overrides config file)",
			EnvVars: []string{"EARMUFFS_APP_PASSWORD", "EM_APP_PW"},
		},
		&cli.StringFlag{
			Name:    "pds-host",
			Usage:   "method, hostname, and port of PDS instance",
			Value:   "https://bsky.social",
			EnvVars: []string{"ATP_PDS_HOST"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			Value:   "info",
			EnvVars: []string{"EARMUFFS_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    "log-json",
			Usage:   "log as JSON instead of text",
			EnvVars: []string{"EARMUFFS_LOG_JSON"},
		},
	}

	app.Before = func(cctx *cli.Context) error {
		logger, err := configLogger(cctx.App.ErrWriter, cctx.String("log-level"), cctx.Bool("log-json"))
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}

	app.Commands = []*cli.Command{
		cmdRun,
		cmdPlan,
		cmdResolve,
		cmdLists,
	}
	app.DefaultCommand = "run"
	return app.Run(args)
}

func configLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "error":
		lvl = slog.LevelError
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "info", "":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	default:
		return nil, fmt.Errorf("unknown log level: %#v", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rickgao/xiv-marketboard/internal/config"
	"github.com/rickgao/xiv-marketboard/internal/version"
)

const usage = `Usage: aggregator <command> [flags]

Commands:
  sync-base     Import the marketable item catalog and data center topology
  sync-trades   Run one trade volume aggregation (-dc NAME -home WORLD)
  daemon        Run sync-base and sync-trades on a schedule with /health and /metrics
  migrate       Create the database schema
  show          Print a stored trade volume row (-dc NAME -home WORLD -item ID)
  version       Print build information
  help          Show this message

Every command accepts -config PATH (default configs/aggregator.yaml).
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	case "version":
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	fset := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fset.SetOutput(stderr)
	configPath := fset.String("config", "configs/aggregator.yaml", "path to config file")
	dcName := fset.String("dc", "", "data center name")
	homeWorld := fset.String("home", "", "home world name")
	itemID := fset.Int64("item", 0, "item id (show only)")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.Log, stderr)
	slog.SetDefault(logger)

	logger.Info("starting aggregator",
		"command", cmd,
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	needsTarget := cmd == "sync-trades" || cmd == "daemon" || cmd == "show"
	if needsTarget && (*dcName == "" || *homeWorld == "") {
		fmt.Fprintf(stderr, "%s requires -dc and -home\n", cmd)
		return 2
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return 1
	}
	defer a.Close()

	switch cmd {
	case "migrate":
		err = a.migrate(ctx)
	case "sync-base":
		err = a.syncBase(ctx)
	case "sync-trades":
		err = a.syncTrades(ctx, *dcName, *homeWorld)
	case "daemon":
		err = a.daemon(ctx, *dcName, *homeWorld)
	case "show":
		err = a.show(ctx, stdout, *dcName, *homeWorld, *itemID)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		return 1
	}
	return 0
}

// newLogger builds the slog handler selected by the log config.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/devserve/cmd/devserve/server"
	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/atlanticdynamic/devserve/internal/fancy"
	"github.com/atlanticdynamic/devserve/internal/logging"
	"github.com/robbyt/go-loglater"
	"github.com/urfave/cli/v3"
)

func newServeCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the document root with the access token injected into the entry file",
		Flags:  newServeFlags(),
		Action: serveAction,
	}
}

// prepareConfig loads, overrides and validates the config. Records go to logger, which
// the caller replays once the real log handler exists.
func prepareConfig(cmd *cli.Command, logger *slog.Logger) (*config.Config, error) {
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg, logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// startupLine is the human-readable banner printed once the listener is bound.
func startupLine(cfg *config.Config) string {
	line := "Serving at " + fancy.URLText(cfg.ListenURL())
	if cfg.NoCache {
		line += " " + fancy.WarnText("with no-cache headers")
	}
	return line
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	bootLogs := loglater.NewLogCollector(nil)

	cfg, err := prepareConfig(cmd, slog.New(bootLogs))
	if err != nil {
		return cli.Exit(err, 1)
	}

	out, err := logging.NewWriter(cfg.Log.Output)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to open log output: %w", err), 1)
	}
	logger := logging.SetupLogger(cfg.Log.Level, cfg.Log.Format, out)
	if err := bootLogs.PlayLogs(logger.Handler()); err != nil {
		logger.Warn("Failed to replay startup logs", "error", err)
	}

	w := cmd.Root().Writer
	onReady := func() { fmt.Fprintln(w, startupLine(cfg)) }

	if err := server.Run(ctx, logger, cfg, onReady); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

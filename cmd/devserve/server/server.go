// Package server wires the devserve components together and runs them under a supervisor.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/atlanticdynamic/devserve/internal/envfile"
	"github.com/atlanticdynamic/devserve/internal/responder"
	httpServer "github.com/atlanticdynamic/devserve/internal/server"
	"github.com/robbyt/go-supervisor/supervisor"
)

const readyPollInterval = 10 * time.Millisecond

// Run loads the access token, builds the responder and HTTP server for a validated cfg,
// and blocks until ctx is cancelled or the process receives a termination signal.
// onReady, when not nil, is called once after the listener is bound.
func Run(ctx context.Context, logger *slog.Logger, cfg *config.Config, onReady func()) error {
	if logger == nil {
		logger = slog.Default()
	}

	token := envfile.LoadToken(logger.With("component", "envfile"), cfg.EnvFile, cfg.Token.Key)

	opts := []responder.Option{
		responder.WithLogHandler(logger.Handler()),
		responder.WithToken(token),
		responder.WithNoCache(cfg.NoCache),
		responder.WithEntry(cfg.Entry.Path, cfg.Entry.File, cfg.Entry.Placeholder),
	}
	if p, ok := envPathInRoot(cfg.Root, cfg.EnvFile); ok {
		logger.Debug("Hiding env file inside document root", "path", p)
		opts = append(opts, responder.WithHidden(p))
	}

	rsp, err := responder.New(cfg.Root, opts...)
	if err != nil {
		return fmt.Errorf("failed to create responder: %w", err)
	}
	defer func() {
		if err := rsp.Close(); err != nil {
			logger.Warn("Failed to close document root", "error", err)
		}
	}()
	logger.Debug("Responder ready", "responder", rsp.String(), "root", cfg.Root)

	srv, err := httpServer.New(cfg, rsp, logger)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	super, err := supervisor.New(
		supervisor.WithRunnables(srv),
		supervisor.WithLogHandler(logger.Handler()),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		watchReady(watchCtx, srv, logger, onReady)
	}()

	err = super.Run()
	stopWatch()
	<-watchDone
	if err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}

// watchReady polls srv until it reports ready, then logs and calls onReady once.
func watchReady(ctx context.Context, srv *httpServer.HTTPServer, logger *slog.Logger, onReady func()) {
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !srv.IsReady() {
				continue
			}
			logger.Info("Server ready", "address", srv.GetAddress())
			if onReady != nil {
				onReady()
			}
			return
		}
	}
}

// envPathInRoot returns the request path of envFile when it lives under root.
func envPathInRoot(root, envFile string) (string, bool) {
	if envFile == "" {
		return "", false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absEnv, err := filepath.Abs(envFile)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absEnv)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "/" + filepath.ToSlash(rel), true
}

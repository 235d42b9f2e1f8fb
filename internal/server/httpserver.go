// Package server runs the devserve HTTP listener under go-supervisor.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*HTTPServer)(nil)
	_ supervisor.Stateable = (*HTTPServer)(nil)
	_ supervisor.Readiness = (*HTTPServer)(nil)
)

// TimeoutOptions contains timeout configuration for the HTTP server
type TimeoutOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DrainTimeout time.Duration
}

// TimeoutsFromConfig converts the configured timeouts.
func TimeoutsFromConfig(t config.Timeouts) TimeoutOptions {
	return TimeoutOptions{
		ReadTimeout:  t.Read.AsDuration(),
		WriteTimeout: t.Write.AsDuration(),
		IdleTimeout:  t.Idle.AsDuration(),
		DrainTimeout: t.Drain.AsDuration(),
	}
}

// serverImplementation abstracts the go-supervisor runner for tests
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsReady() bool
	GetStateChan(ctx context.Context) <-chan string
}

// HTTPServer wraps the go-supervisor httpserver.Runner. Routes and timeouts are fixed
// at construction; the server does not support reloading.
type HTTPServer struct {
	address string
	server  serverImplementation

	logger   *slog.Logger
	routes   []httpserver.Route
	timeouts TimeoutOptions
}

// NewHTTPServer creates a new HTTP server bound to address
func NewHTTPServer(
	address string,
	routes []httpserver.Route,
	timeouts TimeoutOptions,
	logger *slog.Logger,
) (*HTTPServer, error) {
	if logger == nil {
		logger = slog.Default().WithGroup("httpserver")
	}

	s := &HTTPServer{
		address:  address,
		routes:   routes,
		timeouts: timeouts,
		logger:   logger,
	}

	if err := s.initializeRunner(); err != nil {
		return nil, fmt.Errorf("failed to initialize HTTP server runner: %w", err)
	}

	return s, nil
}

func (s *HTTPServer) initializeRunner() error {
	configCallback := func() (*httpserver.Config, error) {
		options := []httpserver.ConfigOption{}

		if s.timeouts.ReadTimeout > 0 {
			options = append(options, httpserver.WithReadTimeout(s.timeouts.ReadTimeout))
		}
		if s.timeouts.WriteTimeout > 0 {
			options = append(options, httpserver.WithWriteTimeout(s.timeouts.WriteTimeout))
		}
		if s.timeouts.IdleTimeout > 0 {
			options = append(options, httpserver.WithIdleTimeout(s.timeouts.IdleTimeout))
		}
		if s.timeouts.DrainTimeout > 0 {
			options = append(options, httpserver.WithDrainTimeout(s.timeouts.DrainTimeout))
		}

		cfg, err := httpserver.NewConfig(s.address, s.routes, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
		}
		return cfg, nil
	}

	runner, err := httpserver.NewRunner(
		httpserver.WithConfigCallback(configCallback),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server runner: %w", err)
	}

	s.server = runner
	return nil
}

func (s *HTTPServer) String() string {
	return fmt.Sprintf("HTTPServer[%s]", s.address)
}

// Run starts the HTTP server and blocks until ctx is cancelled or Stop is called
func (s *HTTPServer) Run(ctx context.Context) error {
	s.logger.Debug("Starting HTTP server", "address", s.address, "routes", len(s.routes))
	return s.server.Run(ctx)
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop() {
	s.logger.Info("Stopping HTTP server", "address", s.address)
	s.server.Stop()
}

func (s *HTTPServer) GetState() string {
	if s.server == nil {
		return "unknown"
	}
	return s.server.GetState()
}

// IsReady reports whether the listener is bound and serving.
func (s *HTTPServer) IsReady() bool {
	if s.server == nil {
		return false
	}
	return s.server.IsReady()
}

// GetStateChan returns a channel that emits state changes
func (s *HTTPServer) GetStateChan(ctx context.Context) <-chan string {
	if s.server == nil {
		ch := make(chan string)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	}
	return s.server.GetStateChan(ctx)
}

// GetAddress returns the address this server listens on
func (s *HTTPServer) GetAddress() string {
	return s.address
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/devserve/internal/config"
)

// New builds the HTTP server for cfg, serving handler on the catch-all route.
func New(cfg *config.Config, handler http.Handler, logger *slog.Logger) (*HTTPServer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	routes, err := NewRoutes(handler, RouteOptions{
		Headers:      cfg.Headers,
		AccessLog:    cfg.Log.Access,
		AccessLogger: logger.With("component", "access"),
	})
	if err != nil {
		return nil, err
	}

	return NewHTTPServer(
		cfg.Listen,
		routes,
		TimeoutsFromConfig(cfg.Timeouts),
		logger.WithGroup("httpserver"),
	)
}

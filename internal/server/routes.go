package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/atlanticdynamic/devserve/internal/server/middleware/accesslog"
	"github.com/atlanticdynamic/devserve/internal/server/middleware/headers"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// RootRouteID names the catch-all route serving the document root.
const RootRouteID = "devserve-root"

var ErrNilHandler = errors.New("handler cannot be nil")

// RouteOptions selects the middleware wrapped around the root handler.
type RouteOptions struct {
	// Headers applies response header rules when non-empty
	Headers config.Headers
	// AccessLog enables the access log middleware, writing to AccessLogger
	AccessLog    bool
	AccessLogger *slog.Logger
}

// NewRoutes builds the single catch-all route. The access log runs outermost so it
// sees the final status of every response.
func NewRoutes(handler http.Handler, opts RouteOptions) ([]httpserver.Route, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	var middlewares []httpserver.HandlerFunc
	if opts.AccessLog {
		middlewares = append(middlewares, accesslog.New(opts.AccessLogger).Middleware())
	}
	if !opts.Headers.IsEmpty() {
		hm, err := headers.New(&opts.Headers)
		if err != nil {
			return nil, fmt.Errorf("failed to create headers middleware: %w", err)
		}
		middlewares = append(middlewares, hm.Middleware())
	}

	route, err := httpserver.NewRouteFromHandlerFunc(RootRouteID, "/", handler.ServeHTTP, middlewares...)
	if err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	return []httpserver.Route{*route}, nil
}

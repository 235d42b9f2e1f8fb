// Package headers applies the configured response header rules to every response.
//
// Operations run in the order remove, set, add, before the handler writes. Headers the
// handler sets itself (Content-Type, the no-cache trio) therefore win over a set rule
// for the same name.
//
// Example configuration:
//
//	[headers]
//	remove = ["X-Powered-By"]
//	[headers.set]
//	"Access-Control-Allow-Origin" = "*"
//	"X-Content-Type-Options" = "nosniff"
package headers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
	supervisorHeaders "github.com/robbyt/go-supervisor/runnables/httpserver/middleware/headers"
)

var ErrNilConfig = errors.New("headers config cannot be nil")

// convertToHTTPHeader converts map[string]string to http.Header
func convertToHTTPHeader(headers map[string]string) http.Header {
	h := make(http.Header, len(headers))
	for key, value := range headers {
		h.Set(key, value)
	}
	return h
}

// Middleware manipulates response headers.
type Middleware struct {
	handler httpserver.HandlerFunc
}

// New builds the go-supervisor header operations for cfg.
func New(cfg *config.Headers) (*Middleware, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	var operations []supervisorHeaders.HeaderOperation
	if len(cfg.Remove) > 0 {
		operations = append(operations, supervisorHeaders.WithRemove(cfg.Remove...))
	}
	if len(cfg.Set) > 0 {
		operations = append(operations, supervisorHeaders.WithSet(convertToHTTPHeader(cfg.Set)))
	}
	if len(cfg.Add) > 0 {
		operations = append(operations, supervisorHeaders.WithAdd(convertToHTTPHeader(cfg.Add)))
	}

	return &Middleware{handler: supervisorHeaders.NewWithOperations(operations...)}, nil
}

// Middleware returns the middleware function
func (m *Middleware) Middleware() httpserver.HandlerFunc {
	return m.handler
}

// String describes the configured operations
func (m *Middleware) String() string {
	return fmt.Sprintf("HeadersMiddleware[%p]", m)
}

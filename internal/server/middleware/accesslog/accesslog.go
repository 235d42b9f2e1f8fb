// Package accesslog logs one line per HTTP request and tags each response with a request id.
package accesslog

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// RequestIDHeader is read from the request and echoed on the response.
const RequestIDHeader = "X-Request-Id"

// AccessLogger is a middleware that logs completed requests.
type AccessLogger struct {
	logger *slog.Logger
}

// New creates an access logger writing to the given logger. A nil logger uses slog.Default.
func New(logger *slog.Logger) *AccessLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessLogger{logger: logger}
}

// Middleware returns the middleware function
func (al *AccessLogger) Middleware() httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		r := rp.Request()
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = newRequestID()
		}
		rp.Writer().Header().Set(RequestIDHeader, requestID)

		rp.Next()

		al.logRequest(r, rp.Writer(), requestID, time.Since(start))
	}
}

func (al *AccessLogger) logRequest(
	r *http.Request,
	rw httpserver.ResponseWriter,
	requestID string,
	duration time.Duration,
) {
	status := rw.Status()
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	} else if status >= 400 {
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, 7)
	attrs = append(attrs,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String("query", r.URL.RawQuery))
	}
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Int("size", rw.Size()),
		slog.Duration("duration", duration),
		slog.String("request_id", requestID),
	)

	al.logger.LogAttrs(r.Context(), level, "HTTP request", attrs...)
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

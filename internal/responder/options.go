package responder

import (
	"log/slog"
	"path"
)

// Option configures a Responder
type Option func(*Responder)

// WithLogHandler sets the slog handler used for read failures
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Responder) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("responder")
		}
	}
}

// WithToken sets the access token injected into the entry file
func WithToken(token string) Option {
	return func(r *Responder) {
		r.token = token
	}
}

// WithNoCache switches the responder to no-cache mode
func WithNoCache(noCache bool) Option {
	return func(r *Responder) {
		r.noCache = noCache
	}
}

// WithEntry overrides the entry request path, the file it is read from (relative to the
// root), and the placeholder replaced with the token.
func WithEntry(path, file, placeholder string) Option {
	return func(r *Responder) {
		r.entryPath = path
		r.entryFile = file
		r.placeholder = placeholder
	}
}

// WithHidden makes the given request paths answer 404, e.g. an env file that lives
// inside the document root.
func WithHidden(paths ...string) Option {
	return func(r *Responder) {
		if r.hidden == nil {
			r.hidden = make(map[string]struct{}, len(paths))
		}
		for _, p := range paths {
			r.hidden[path.Clean("/"+p)] = struct{}{}
		}
	}
}

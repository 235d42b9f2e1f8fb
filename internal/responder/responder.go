// Package responder serves the application's static assets. A small ordered table of
// rules handles the paths that need special treatment (token injection, CSV content
// type, and in no-cache mode direct reads with no-store headers). Everything else
// falls through to the standard library file server.
package responder

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
)

// Rule names, in dispatch order.
const (
	RuleHidden = "hidden"
	RuleEntry  = "entry"
	RuleCSV    = "csv"
	RuleTyped  = "typed"
	RuleStatic = "static"
)

type rule struct {
	name    string
	match   func(urlPath string) bool
	respond http.HandlerFunc
}

// Responder is an http.Handler over a document root. It holds no per-request state
// and is safe for concurrent use.
type Responder struct {
	root     *os.Root
	fsys     fs.FS
	fallback http.Handler
	rules    []rule
	hidden   map[string]struct{}

	token       string
	entryPath   string
	entryFile   string
	placeholder string
	noCache     bool

	logger *slog.Logger
}

// New opens rootDir with os.OpenRoot, so served files cannot escape it, and builds a
// Responder over it. Close releases the root.
func New(rootDir string, opts ...Option) (*Responder, error) {
	if rootDir == "" {
		return nil, ErrEmptyRoot
	}
	root, err := os.OpenRoot(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenRoot, err)
	}

	r, err := NewFS(root.FS(), opts...)
	if err != nil {
		_ = root.Close()
		return nil, err
	}
	r.root = root
	return r, nil
}

// NewFS builds a Responder over an arbitrary file system.
func NewFS(fsys fs.FS, opts ...Option) (*Responder, error) {
	r := &Responder{
		fsys:        fsys,
		fallback:    http.FileServerFS(fsys),
		entryPath:   "/js/app.js",
		entryFile:   "js/app.js",
		placeholder: "process.env.MAPBOX_ACCESS_TOKEN || ''",
		logger:      slog.Default().WithGroup("responder"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if !strings.HasPrefix(r.entryPath, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryPath, r.entryPath)
	}
	if r.entryFile == "" {
		return nil, ErrEmptyEntryFile
	}
	if r.placeholder == "" {
		return nil, ErrEmptyPlaceholder
	}

	r.rules = r.buildRules()
	return r, nil
}

func (r *Responder) buildRules() []rule {
	rules := []rule{
		{
			name:    RuleEntry,
			match:   func(p string) bool { return p == r.entryPath },
			respond: r.serveEntry,
		},
		{
			name:    RuleCSV,
			match:   func(p string) bool { return strings.HasSuffix(p, ".csv") },
			respond: r.serveRaw(ContentTypeCSV),
		},
	}
	if r.noCache {
		rules = append(rules, rule{
			name: RuleTyped,
			match: func(p string) bool {
				_, ok := typedContent[path.Ext(p)]
				return ok
			},
			respond: func(w http.ResponseWriter, req *http.Request) {
				r.serveRaw(typedContent[path.Ext(req.URL.Path)])(w, req)
			},
		})
	}
	return rules
}

// String returns a unique identifier for this responder
func (r *Responder) String() string {
	return fmt.Sprintf("Responder[noCache=%t]", r.noCache)
}

// Close releases the document root opened by New.
func (r *Responder) Close() error {
	if r.root == nil {
		return nil
	}
	return r.root.Close()
}

// Classify returns the name of the rule that handles a GET for urlPath, or RuleStatic
// when the request falls through to the file server.
func (r *Responder) Classify(urlPath string) string {
	if r.isHidden(urlPath) {
		return RuleHidden
	}
	if rl := r.match(urlPath); rl != nil {
		return rl.name
	}
	return RuleStatic
}

func (r *Responder) match(urlPath string) *rule {
	for i := range r.rules {
		if r.rules[i].match(urlPath) {
			return &r.rules[i]
		}
	}
	return nil
}

func (r *Responder) isHidden(urlPath string) bool {
	_, ok := r.hidden[path.Clean("/"+urlPath)]
	return ok
}

// ServeHTTP dispatches GET requests through the rule table. HEAD goes straight to the
// file server, and every other method is answered with 501. Hidden paths are 404 for
// both GET and HEAD.
func (r *Responder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Unsupported method", http.StatusNotImplemented)
		return
	}

	if r.isHidden(req.URL.Path) {
		r.logger.Debug("Hidden path requested", "path", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if req.Method == http.MethodHead {
		r.fallback.ServeHTTP(w, req)
		return
	}

	rl := r.match(req.URL.Path)
	if rl == nil {
		r.fallback.ServeHTTP(w, req)
		return
	}
	if r.noCache {
		setNoCacheHeaders(w.Header())
	}
	rl.respond(w, req)
}

func (r *Responder) serveEntry(w http.ResponseWriter, req *http.Request) {
	data, err := r.readFile(r.entryFile)
	if err != nil {
		r.writeReadError(w, req, err)
		return
	}
	body := InjectToken(string(data), r.placeholder, r.token)
	writeBody(w, ContentTypeJavaScript, []byte(body))
}

func (r *Responder) serveRaw(contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := r.readFile(req.URL.Path)
		if err != nil {
			r.writeReadError(w, req, err)
			return
		}
		writeBody(w, contentType, data)
	}
}

// readFile reads a slash-separated path relative to the root. Directories, and paths
// that cannot be resolved inside the root (such as symlinks escaping it), are reported
// as missing.
func (r *Responder) readFile(name string) ([]byte, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(r.fsys, name)
}

// writeReadError maps a read failure to a status with an empty body.
func (r *Responder) writeReadError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
		status = http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		r.logger.Error("Failed to read file", "path", req.URL.Path, "error", err)
	} else {
		r.logger.Debug("File not served", "path", req.URL.Path, "status", status, "error", err)
	}
	w.WriteHeader(status)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

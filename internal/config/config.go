// Package config holds the devserve server configuration, loaded from TOML and
// overridden by command line flags.
package config

import (
	"fmt"
	"net"
)

const (
	DefaultListen      = ":8000"
	DefaultRoot        = "."
	DefaultEnvFile     = ".env"
	DefaultTokenKey    = "MAPBOX_ACCESS_TOKEN"
	DefaultEntryPath   = "/js/app.js"
	DefaultEntryFile   = "js/app.js"
	DefaultPlaceholder = "process.env.MAPBOX_ACCESS_TOKEN || ''"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogOutput   = "stderr"
)

// Config is the full server configuration. It is treated as read-only once the server starts.
type Config struct {
	// Listen is the TCP address to bind, e.g. ":8000"
	Listen string `toml:"listen"`

	// Root is the document root; request paths map one-to-one onto files below it
	Root string `toml:"root"`

	// EnvFile is the KEY=VALUE file holding the access token. Empty disables token loading.
	EnvFile string `toml:"env_file"`

	// NoCache forces no-store headers on every response the server builds itself
	NoCache bool `toml:"no_cache"`

	Token    Token    `toml:"token"`
	Entry    Entry    `toml:"entry"`
	Headers  Headers  `toml:"headers"`
	Timeouts Timeouts `toml:"timeouts"`
	Log      Log      `toml:"log"`
}

// Token selects which key of the env file is the access token.
type Token struct {
	Key string `toml:"key"`
}

// Entry describes the JavaScript bootstrap file that receives the token.
type Entry struct {
	// Path is the request path, e.g. "/js/app.js"
	Path string `toml:"path"`
	// File is the file read for Path, relative to Root
	File string `toml:"file"`
	// Placeholder is replaced once with the quoted token
	Placeholder string `toml:"placeholder"`
}

// Headers are extra response header rules applied to every response, in the
// order remove, set, add.
type Headers struct {
	Set    map[string]string `toml:"set"`
	Add    map[string]string `toml:"add"`
	Remove []string          `toml:"remove"`
}

// IsEmpty reports whether no header rule is configured.
func (h Headers) IsEmpty() bool {
	return len(h.Set) == 0 && len(h.Add) == 0 && len(h.Remove) == 0
}

// Timeouts for the HTTP server. Zero values leave the go-supervisor defaults in place.
type Timeouts struct {
	Read  Duration `toml:"read"`
	Write Duration `toml:"write"`
	Idle  Duration `toml:"idle"`
	Drain Duration `toml:"drain"`
}

// Log configures the process logger and the access log.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
	Access bool   `toml:"access"`
}

// NewDefault returns the configuration the server runs with when no file is given.
func NewDefault() *Config {
	return &Config{
		Listen:  DefaultListen,
		Root:    DefaultRoot,
		EnvFile: DefaultEnvFile,
		Token:   Token{Key: DefaultTokenKey},
		Entry: Entry{
			Path:        DefaultEntryPath,
			File:        DefaultEntryFile,
			Placeholder: DefaultPlaceholder,
		},
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
			Access: true,
		},
	}
}

// ListenURL returns the browser URL for the listen address, using localhost
// when the address binds all interfaces.
func (c *Config) ListenURL() string {
	host, port, err := net.SplitHostPort(c.Listen)
	if err != nil {
		return "http://" + c.Listen
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, port))
}

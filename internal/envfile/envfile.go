// Package envfile reads a single value out of a KEY=VALUE file such as .env.
//
// Lines are stripped of surrounding whitespace. Blank lines and lines starting with '#'
// are skipped. Every other line must contain '='; the key is everything before the
// first '=' and the value everything after it, verbatim. The first line whose key
// matches wins and reading stops there, so lines after the match are never inspected.
// Lines have no length limit.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atlanticdynamic/devserve/internal/fancy"
)

var (
	ErrOpenFile      = errors.New("failed to open env file")
	ErrMalformedLine = errors.New("malformed env line")
	ErrReadFile      = errors.New("failed to read env file")
)

// Lookup scans r for key and returns its value. A missing key is not an error and
// yields "".
func Lookup(r io.Reader, key string) (string, error) {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", fmt.Errorf("%w: %w", ErrReadFile, readErr)
		}
		if raw == "" && readErr != nil {
			return "", nil
		}
		lineNo++
		raw = strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		line := strings.TrimSpace(raw)
		// the comment check looks at the unstripped line
		if line != "" && !strings.HasPrefix(raw, "#") {
			k, v, ok := strings.Cut(line, "=")
			if !ok {
				return "", fmt.Errorf("%w: line %d has no '='", ErrMalformedLine, lineNo)
			}
			if k == key {
				return v, nil
			}
		}
		if readErr != nil {
			return "", nil
		}
	}
}

// Load opens path and looks up key.
func Load(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	v, err := Lookup(f, key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadToken is the startup wrapper around Load. It never fails: any problem is logged
// and the token is "". On success only a short prefix of the token is logged.
func LoadToken(logger *slog.Logger, path, key string) string {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		logger.Debug("Env file disabled, using empty access token")
		return ""
	}

	token, err := Load(path, key)
	if err != nil {
		logger.Warn("Error loading env file, using empty token - the map will not work properly",
			"path", path, "key", key, "error", err)
		return ""
	}

	if token == "" {
		logger.Warn("No access token found", "path", path, "key", key)
		return ""
	}
	logger.Info("Loaded access token", "key", key, "prefix", fancy.Redact(token, 5))
	return token
}

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/atlanticdynamic/devserve/internal/logging"
	"golang.org/x/net/http/httpguts"
)

// Validate checks the configuration and returns every problem found, joined.
func (c *Config) Validate() error {
	var errz []error

	if err := validateListen(c.Listen); err != nil {
		errz = append(errz, err)
	}
	if strings.TrimSpace(c.Root) == "" {
		errz = append(errz, fmt.Errorf("%w: root", ErrEmptyField))
	}

	if c.EnvFile != "" {
		switch {
		case strings.TrimSpace(c.Token.Key) == "":
			errz = append(errz, fmt.Errorf("%w: token.key", ErrEmptyField))
		case strings.ContainsAny(c.Token.Key, "=\n"):
			errz = append(errz, fmt.Errorf("%w: %q", ErrInvalidTokenKey, c.Token.Key))
		}
	}

	errz = append(errz, c.Entry.validate()...)
	errz = append(errz, c.Headers.validate()...)
	errz = append(errz, c.Timeouts.validate()...)
	errz = append(errz, c.Log.validate()...)

	if len(errz) > 0 {
		return fmt.Errorf("%w: %w", ErrFailedToValidateConfig, errors.Join(errz...))
	}
	return nil
}

func validateListen(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: listen", ErrEmptyField)
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListen, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%w: port %q", ErrInvalidListen, port)
	}
	return nil
}

func (e Entry) validate() []error {
	var errz []error
	if !strings.HasPrefix(e.Path, "/") {
		errz = append(errz, fmt.Errorf("%w: %q", ErrInvalidEntryPath, e.Path))
	}
	if strings.TrimSpace(e.File) == "" {
		errz = append(errz, fmt.Errorf("%w: entry.file", ErrEmptyField))
	}
	if e.Placeholder == "" {
		errz = append(errz, fmt.Errorf("%w: entry.placeholder", ErrEmptyField))
	}
	return errz
}

func (h Headers) validate() []error {
	var errz []error
	for key, value := range h.Set {
		if err := validateHeader(key, value); err != nil {
			errz = append(errz, fmt.Errorf("%w: set '%s': %w", ErrInvalidHeader, key, err))
		}
	}
	for key, value := range h.Add {
		if err := validateHeader(key, value); err != nil {
			errz = append(errz, fmt.Errorf("%w: add '%s': %w", ErrInvalidHeader, key, err))
		}
	}
	for _, key := range h.Remove {
		if strings.TrimSpace(key) == "" {
			errz = append(errz, fmt.Errorf("%w: remove header name cannot be empty", ErrInvalidHeader))
		}
	}
	return errz
}

// validateHeader validates a header key-value pair using httpguts
func validateHeader(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("header name cannot be empty")
	}
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("invalid header name: %s", key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid header value for %s", key)
	}
	return nil
}

func (t Timeouts) validate() []error {
	var errz []error
	for name, d := range map[string]Duration{
		"read":  t.Read,
		"write": t.Write,
		"idle":  t.Idle,
		"drain": t.Drain,
	} {
		if d < 0 {
			errz = append(errz, fmt.Errorf("%w: timeouts.%s = %s", ErrNegativeTimeout, name, d))
		}
	}
	return errz
}

func (l Log) validate() []error {
	var errz []error
	if !logging.IsValidLevel(l.Level) {
		errz = append(errz, fmt.Errorf("%w: %s", ErrInvalidLogLevel, l.Level))
	}
	if !logging.IsValidFormat(l.Format) {
		errz = append(errz, fmt.Errorf("%w: %s", ErrInvalidLogFormat, l.Format))
	}
	return errz
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/devserve/internal/interpolation"
	gotoml "github.com/pelletier/go-toml/v2"
)

// NewConfig loads a TOML config file on top of the defaults. The result is not validated.
func NewConfig(filePath string) (*Config, error) {
	if ext := filepath.Ext(filePath); ext != ".toml" {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedExtension, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg, err := NewConfigFromBytes(data, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToLoadConfig, filePath, err)
	}
	return cfg, nil
}

// NewConfigFromBytes decodes TOML on top of the defaults and expands ${VAR} references in
// string fields using lookup. Unknown keys are rejected.
func NewConfigFromBytes(data []byte, lookup interpolation.LookupFunc) (*Config, error) {
	cfg := NewDefault()

	dec := gotoml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}

	if err := cfg.interpolate(lookup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterpolation, err)
	}
	return cfg, nil
}

func (c *Config) interpolate(lookup interpolation.LookupFunc) error {
	errs := []error{
		interpolation.ExpandFields(lookup, map[string]*string{
			"listen":     &c.Listen,
			"root":       &c.Root,
			"env_file":   &c.EnvFile,
			"token.key":  &c.Token.Key,
			"entry.path": &c.Entry.Path,
			"entry.file": &c.Entry.File,
			"log.level":  &c.Log.Level,
			"log.output": &c.Log.Output,
		}),
		expandMap(lookup, "headers.set", c.Headers.Set),
		expandMap(lookup, "headers.add", c.Headers.Add),
	}
	return errors.Join(errs...)
}

func expandMap(lookup interpolation.LookupFunc, prefix string, m map[string]string) error {
	var errs []error
	for k, v := range m {
		expanded, err := interpolation.Expand(v, lookup)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s.%s: %w", prefix, k, err))
			continue
		}
		m[k] = expanded
	}
	return errors.Join(errs...)
}

package config

import "errors"

var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedExtension   = errors.New("unsupported config extension")
	ErrParseToml              = errors.New("failed to parse TOML")
	ErrInterpolation          = errors.New("failed to interpolate environment variables")
)

// Validation specific errors
var (
	ErrEmptyField       = errors.New("required field is empty")
	ErrInvalidListen    = errors.New("invalid listen address")
	ErrInvalidEntryPath = errors.New("entry path must start with '/'")
	ErrInvalidTokenKey  = errors.New("invalid token key")
	ErrInvalidHeader    = errors.New("invalid header rule")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrNegativeTimeout  = errors.New("timeout cannot be negative")
)

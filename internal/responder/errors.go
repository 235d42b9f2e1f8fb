package responder

import "errors"

var (
	ErrEmptyRoot        = errors.New("document root cannot be empty")
	ErrOpenRoot         = errors.New("failed to open document root")
	ErrInvalidEntryPath = errors.New("entry path must start with '/'")
	ErrEmptyEntryFile   = errors.New("entry file cannot be empty")
	ErrEmptyPlaceholder = errors.New("placeholder cannot be empty")
)

// Package interpolation expands ${VAR} and ${VAR:default} references in config strings.
package interpolation

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUndefinedVar is returned when a reference has no value and no default.
var ErrUndefinedVar = errors.New("environment variable not defined")

// captures: name, optional colon, default
var refPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// LookupFunc resolves a variable name, reporting whether it was set.
type LookupFunc func(name string) (string, bool)

// Expand replaces every ${NAME} and ${NAME:default} in input using lookup. A set variable
// wins over the default, and ${NAME:} defaults to the empty string. Undefined references
// without a default are left in place and reported together.
func Expand(input string, lookup LookupFunc) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	out := refPattern.ReplaceAllStringFunc(input, func(ref string) string {
		m := refPattern.FindStringSubmatch(ref)
		name, hasDefault, def := m[1], m[2] == ":", m[3]

		if v, ok := lookup(name); ok {
			return v
		}
		if hasDefault {
			return def
		}
		missing = append(missing, fmt.Errorf("%w: %s", ErrUndefinedVar, name))
		return ref
	})

	return out, errors.Join(missing...)
}

// ExpandFields expands each named field in place, collecting errors with the field name.
func ExpandFields(lookup LookupFunc, fields map[string]*string) error {
	var errs []error
	for name, ptr := range fields {
		if ptr == nil {
			continue
		}
		v, err := Expand(*ptr, lookup)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", name, err))
			continue
		}
		*ptr = v
	}
	return errors.Join(errs...)
}

// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// RequiredField returns a criterio validator for required text fields.
func RequiredField(field, value string) error {
	return criterio.Run(field, value, Required)
}

// OneOf returns a validator accepting only the listed values.
func OneOf[T ~string](allowed ...T) func(T) error {
	return func(v T) error {
		if slices.Contains(allowed, v) {
			return nil
		}
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(names, ", "), v)
	}
}

// OneOfField returns a criterio validator for enumerated fields.
func OneOfField[T ~string](field string, value T, allowed ...T) error {
	check := OneOf(allowed...)
	return criterio.Run(field, string(value), func(s string) error {
		return check(T(s))
	})
}

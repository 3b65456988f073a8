// Package validation formats the allowed values of closed string sets for
// errors and help text.
package validation

import (
	"fmt"
	"strings"
)

// FormatValidValues joins values with commas: "a, b".
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// FormatQuotedValues renders values as a bracketed list of quoted strings:
// ["a", "b"].
func FormatQuotedValues[T ~string](values []T) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", string(value)))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// InvalidValue wraps base with the rejected input and the valid values.
func InvalidValue[T ~string](base error, input string, valid []T) error {
	return fmt.Errorf("%w: %q (valid: %s)", base, input, FormatValidValues(valid))
}

package ui

import (
	"strings"

	internalstrings "github.com/amonks/sheettodo/internal/strings"
	"github.com/muesli/reflow/wordwrap"
)

// Wrap word-wraps value to width, continuing lines with indent spaces.
func Wrap(value string, width, indent int) string {
	value = internalstrings.NormalizeWhitespace(value)
	if value == "" {
		return ""
	}
	if width-indent < 1 {
		return value
	}
	wrapped := wordwrap.String(value, width-indent)
	lines := strings.Split(wrapped, "\n")
	prefix := strings.Repeat(" ", indent)
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// IndentBlock prefixes each line with spaces.
func IndentBlock(value string, spaces int) string {
	value = internalstrings.TrimTrailingNewlines(value)
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

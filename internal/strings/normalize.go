package strings

import "strings"

// NormalizeWhitespace collapses runs of whitespace into single spaces.
func NormalizeWhitespace(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// NormalizeNewlines replaces CRLF and CR with LF.
func NormalizeNewlines(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(value, "\r", "\n")
}

// ExpandEscapedNewlines turns literal backslash-n sequences into line
// breaks. Single-line shell input uses them to write multi-line notes.
func ExpandEscapedNewlines(value string) string {
	return strings.ReplaceAll(value, `\n`, "\n")
}

// EscapeNewlines is the inverse of ExpandEscapedNewlines.
func EscapeNewlines(value string) string {
	return strings.ReplaceAll(NormalizeNewlines(value), "\n", `\n`)
}

// TrimTrailingNewlines removes trailing CR/LF characters.
func TrimTrailingNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}

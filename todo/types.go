// Package todo implements todo records stored as rows of a spreadsheet.
//
// Each todo is one row. Columns are described by the static Fields table,
// which drives both decoding rows into Todo values and encoding Todo values
// for writes.
//
// The public API mirrors the shell commands:
//   - Create, Save for new todos
//   - Finish, Unfinish, Delete, Update* for existing ones
//   - List, Find, View for querying
package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/sheettodo/internal/validation"
)

// Status is the workflow state stored in the Status column.
type Status string

const (
	// StatusBacklog is the default for todos nobody has scheduled.
	StatusBacklog Status = "Backlog"

	// StatusActiveSprint marks work planned for the current sprint.
	StatusActiveSprint Status = "Active Sprint"

	// StatusInProgress marks work underway.
	StatusInProgress Status = "In Progress"

	// StatusDone marks finished work.
	StatusDone Status = "Done"

	// StatusOBE marks work overtaken by events.
	StatusOBE Status = "OBE"
)

// ValidStatuses returns all valid status values in display order.
func ValidStatuses() []Status {
	return []Status{StatusBacklog, StatusActiveSprint, StatusInProgress, StatusDone, StatusOBE}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ParseStatus matches input against the valid statuses, ignoring case and
// surrounding whitespace.
func ParseStatus(input string) (Status, error) {
	trimmed := strings.TrimSpace(input)
	for _, valid := range ValidStatuses() {
		if strings.EqualFold(trimmed, string(valid)) {
			return valid, nil
		}
	}
	return "", validation.InvalidValue(ErrInvalidStatus, input, ValidStatuses())
}

// DateLayout is the ISO calendar date form used for every date field.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(input string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, input)
	}
	return parsed, nil
}

// FormatDate formats a date as YYYY-MM-DD, or "" for nil.
func FormatDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(DateLayout)
}

// DateOf truncates t to its calendar date in t's location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr returns a pointer to the calendar date of t.
func DatePtr(t time.Time) *time.Time {
	date := DateOf(t)
	return &date
}

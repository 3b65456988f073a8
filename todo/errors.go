package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row carries the requested ID.
	ErrNotFound = errors.New("todo not found")

	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing argument")

	// ErrMissingBackingRecord is returned when a mutation targets a todo
	// that has no backing row.
	ErrMissingBackingRecord = errors.New("todo has no backing row")

	// ErrAlreadySaved is returned when saving a todo that already has a row.
	ErrAlreadySaved = errors.New("todo already has a backing row")

	// ErrEmptyTask is returned when a todo's task is blank.
	ErrEmptyTask = errors.New("task cannot be empty")

	// ErrInvalidStatus is returned for a status outside ValidStatuses.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDate is returned for a date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)

// FieldError reports a cell that could not be decoded.
type FieldError struct {
	RowID  int64
	Column string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d column %s: %v", e.RowID, e.Column, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingArgument returns an ErrMissingArgument naming the argument.
func MissingArgument(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingArgument, name)
}

package shell

import (
	"errors"
	"fmt"

	"github.com/amonks/sheettodo/sheet"
	"github.com/amonks/sheettodo/todo"
)

var (
	// ErrExit is returned by Execute for exit and quit.
	ErrExit = errors.New("exit")

	// ErrInterrupted is returned by a LineReader when the user presses
	// Ctrl-C at the prompt.
	ErrInterrupted = errors.New("interrupted")
)

// lookupError reports an ID that matched no todo.
type lookupError struct {
	ID  string
	Err error
}

func (e *lookupError) Error() string {
	return fmt.Sprintf("Unable to find with id %s", e.ID)
}

func (e *lookupError) Unwrap() error {
	return e.Err
}

// writeError reports a row that was removed after it was read as a failed
// lookup of id.
func writeError(id string, err error) error {
	if sheet.IsNotFound(err) {
		return &lookupError{ID: id, Err: err}
	}
	return err
}

// FormatError returns the message the shell prints for err.
func FormatError(err error) string {
	var lookupErr *lookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Error()
	}
	var apiErr *sheet.APIError
	if errors.As(err, &apiErr) {
		return "backend error: " + err.Error()
	}
	if errors.Is(err, todo.ErrNotFound) {
		return err.Error()
	}
	return "error: " + err.Error()
}

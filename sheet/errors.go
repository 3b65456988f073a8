package sheet

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTableNotFound is returned when no sheet has the requested name.
	ErrTableNotFound = errors.New("table not found")

	// ErrUnknownColumn is returned when a write names a column the sheet lacks.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrReadOnlyColumn is returned when a write targets a system column.
	ErrReadOnlyColumn = errors.New("column is read-only")

	// ErrMissingToken is returned when the client has no access token.
	ErrMissingToken = errors.New("missing Smartsheet access token")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	// Status is the HTTP status code.
	Status int `json:"-"`

	// ErrorCode is the Smartsheet error code.
	ErrorCode int `json:"errorCode"`

	// Message is the human-readable error.
	Message string `json:"message"`

	// RefID identifies the request in Smartsheet's logs.
	RefID string `json:"refId"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("smartsheet: %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.ErrorCode != 0 {
		return fmt.Sprintf("smartsheet: %s (status %d, code %d)", e.Message, e.Status, e.ErrorCode)
	}
	return fmt.Sprintf("smartsheet: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

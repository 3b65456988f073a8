package todo

import "time"

// Todo is one decoded row.
type Todo struct {
	// ID is the auto-numbered Id column. The backend assigns it.
	ID string `json:"id" yaml:"id"`

	// RowID is the backing row. Zero means the todo has never been saved.
	RowID int64 `json:"row_id,omitempty" yaml:"row_id,omitempty"`

	// Task is the one-line description.
	Task string `json:"task" yaml:"task"`

	// DueDate is when the todo is due (nil if unscheduled).
	DueDate *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`

	// CompletedAt is the date the todo was finished (nil while open).
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`

	// Notes is free text. Literal "\n" sequences are line breaks.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Status is the workflow state ("" when the cell is unset).
	Status Status `json:"status,omitempty" yaml:"status,omitempty"`
}

// Completed reports whether the todo has a completion date.
func (t Todo) Completed() bool {
	return t.CompletedAt != nil
}

// HasBackingRecord reports whether the todo is stored in a row.
func (t Todo) HasBackingRecord() bool {
	return t.RowID != 0
}

// StatusOrDefault returns the status, or StatusBacklog when unset.
func (t Todo) StatusOrDefault() Status {
	if t.Status == "" {
		return StatusBacklog
	}
	return t.Status
}

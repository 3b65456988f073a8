package todo

import (
	"strings"
	"time"

	"github.com/amonks/sheettodo/sheet"
)

// Column titles of the todo sheet.
const (
	ColumnID          = "Id"
	ColumnTask        = "TaskName"
	ColumnDueDate     = "DueDate"
	ColumnCompletedAt = "CompletedAt"
	ColumnNotes       = "Notes"
	ColumnStatus      = "Status"
)

// FieldKind selects how a column's cells are coerced.
type FieldKind int

const (
	// KindText passes the display value through.
	KindText FieldKind = iota

	// KindDate parses and formats YYYY-MM-DD.
	KindDate

	// KindAutoNumber is assigned by the backend and never written.
	KindAutoNumber

	// KindPicklist is text offered from ValidStatuses. Writes are
	// restricted to those values.
	KindPicklist
)

// Field maps one column to one Todo attribute.
type Field struct {
	// Column is the external column title.
	Column string

	// Kind is the coercion rule.
	Kind FieldKind

	// ReadOnly fields are decoded but never written.
	ReadOnly bool

	// decode stores the cell into t. present is false when the row has no
	// cell for the column.
	decode func(t *Todo, cell sheet.Cell, present bool) error

	// encode returns the value to write on create, and whether to write it.
	// Nil for fields that are not written on create.
	encode func(t Todo) (any, bool)
}

// Fields is the mapping between the sheet's columns and Todo attributes.
var Fields = []Field{
	{
		Column:   ColumnID,
		Kind:     KindAutoNumber,
		ReadOnly: true,
		decode: func(t *Todo, cell sheet.Cell, present bool) error {
			t.ID = decodeText(cell, present)
			return nil
		},
	},
	{
		Column: ColumnTask,
		Kind:   KindText,
		decode: func(t *Todo, cell sheet.Cell, present bool) error {
			t.Task = decodeText(cell, present)
			return nil
		},
		encode: func(t Todo) (any, bool) {
			return t.Task, true
		},
	},
	{
		Column: ColumnDueDate,
		Kind:   KindDate,
		decode: func(t *Todo, cell sheet.Cell, present bool) error {
			date, err := decodeDate(cell, present)
			t.DueDate = date
			return err
		},
		encode: func(t Todo) (any, bool) {
			return FormatDate(t.DueDate), t.DueDate != nil
		},
	},
	{
		Column: ColumnCompletedAt,
		Kind:   KindDate,
		decode: func(t *Todo, cell sheet.Cell, present bool) error {
			date, err := decodeDate(cell, present)
			t.CompletedAt = date
			return err
		},
	},
	{
		Column: ColumnNotes,
		Kind:   KindText,
		decode: func(t *Todo, cell sheet.Cell, present bool) error {
			t.Notes = decodeText(cell, present)
			return nil
		},
		encode: func(t Todo) (any, bool) {
			return t.Notes, t.Notes != ""
		},
	},
	{
		Column: ColumnStatus,
		Kind:   KindPicklist,
		// Values outside ValidStatuses are kept as written.
		decode: func(t *Todo, cell sheet.Cell, present bool) error {
			value := decodeText(cell, present)
			if status, err := ParseStatus(value); err == nil {
				t.Status = status
			} else {
				t.Status = Status(value)
			}
			return nil
		},
		encode: func(t Todo) (any, bool) {
			return string(t.Status), t.Status != ""
		},
	},
}

// Columns returns the sheet schema used when creating a todo sheet.
func Columns() []sheet.Column {
	columns := make([]sheet.Column, 0, len(Fields))
	for _, field := range Fields {
		col := sheet.Column{Title: field.Column, Type: sheet.ColumnTextNumber}
		switch field.Kind {
		case KindAutoNumber:
			col.SystemColumnType = sheet.SystemAutoNumber
			col.AutoNumberFormat = &sheet.AutoNumberFormat{StartingNum: 1}
		case KindDate:
			col.Type = sheet.ColumnDate
		case KindPicklist:
			col.Type = sheet.ColumnPicklist
			for _, status := range ValidStatuses() {
				col.Options = append(col.Options, string(status))
			}
		}
		if field.Column == ColumnTask {
			col.Primary = true
		}
		columns = append(columns, col)
	}
	return columns
}

func decodeText(cell sheet.Cell, present bool) string {
	if !present || cell.IsEmpty() {
		return ""
	}
	return cell.Text()
}

func decodeDate(cell sheet.Cell, present bool) (*time.Time, error) {
	if !present {
		return nil, nil
	}
	raw := strings.TrimSpace(cell.ValueString())
	if raw == "" {
		return nil, nil
	}
	// DATETIME columns carry a time suffix; only the calendar date matters.
	if len(raw) > len(DateLayout) && raw[len(DateLayout)] == 'T' {
		raw = raw[:len(DateLayout)]
	}
	date, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

package todo

import (
	"errors"

	"github.com/amonks/sheettodo/sheet"
)

// Decode builds a Todo from a row using Fields.
// A failing cell leaves its field unset and contributes a *FieldError; the
// returned error joins them. The rest of the Todo is still filled in.
func Decode(record sheet.Record) (Todo, error) {
	t := Todo{RowID: record.RowID}
	var errs []error
	for _, field := range Fields {
		cell, present := record.Cell(field.Column)
		if err := field.decode(&t, cell, present); err != nil {
			errs = append(errs, &FieldError{RowID: record.RowID, Column: field.Column, Err: err})
		}
	}
	return t, errors.Join(errs...)
}

// Encode returns the column values to write when creating t.
// Optional fields are left out when unset so their cells stay empty.
func Encode(t Todo) map[string]any {
	values := make(map[string]any, len(Fields))
	for _, field := range Fields {
		if field.ReadOnly || field.encode == nil {
			continue
		}
		if value, ok := field.encode(t); ok {
			values[field.Column] = value
		}
	}
	return values
}

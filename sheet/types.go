// Package sheet is a small client for the Smartsheet REST API.
//
// The public API mirrors what the todo store needs from a tabular backend:
//   - Database lists sheets and resolves one by name
//   - Table wraps a fetched sheet and writes rows back
//
// A Table is a snapshot. Callers fetch a fresh one for every operation
// instead of holding on to it.
package sheet

import (
	"strconv"
	"strings"
)

// ColumnType is the Smartsheet column type.
type ColumnType string

const (
	// ColumnTextNumber holds free text or numbers.
	ColumnTextNumber ColumnType = "TEXT_NUMBER"

	// ColumnDate holds calendar dates in YYYY-MM-DD form.
	ColumnDate ColumnType = "DATE"

	// ColumnPicklist holds one value from a fixed option list.
	ColumnPicklist ColumnType = "PICKLIST"
)

// SystemAutoNumber marks a column whose values the backend assigns.
const SystemAutoNumber = "AUTO_NUMBER"

// objectTypeDate is the objectValue type used when writing date cells.
const objectTypeDate = "DATE"

// Column describes one sheet column.
type Column struct {
	ID               int64             `json:"id,omitempty"`
	Index            int               `json:"index,omitempty"`
	Title            string            `json:"title"`
	Type             ColumnType        `json:"type"`
	Primary          bool              `json:"primary,omitempty"`
	SystemColumnType string            `json:"systemColumnType,omitempty"`
	Options          []string          `json:"options,omitempty"`
	AutoNumberFormat *AutoNumberFormat `json:"autoNumberFormat,omitempty"`
}

// AutoNumberFormat configures an AUTO_NUMBER column.
type AutoNumberFormat struct {
	Prefix      string `json:"prefix,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
	Fill        string `json:"fill,omitempty"`
	StartingNum int64  `json:"startingNumber,omitempty"`
}

// ReadOnly reports whether the backend owns the column's values.
func (c Column) ReadOnly() bool {
	return c.SystemColumnType != ""
}

// SheetSummary is one entry from the sheet listing.
type SheetSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Sheet is a full sheet with columns and rows.
type Sheet struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	TotalRowCount int      `json:"totalRowCount"`
	Columns       []Column `json:"columns"`
	Rows          []Row    `json:"rows"`
}

// Row is a sheet row as sent over the wire. Cells reference columns by ID.
type Row struct {
	ID        int64  `json:"id,omitempty"`
	RowNumber int    `json:"rowNumber,omitempty"`
	ToBottom  bool   `json:"toBottom,omitempty"`
	Cells     []Cell `json:"cells"`
}

// Cell is one cell value.
type Cell struct {
	ColumnID     int64  `json:"columnId"`
	Value        any    `json:"value,omitempty"`
	DisplayValue string `json:"displayValue,omitempty"`
	ObjectValue  any    `json:"objectValue,omitempty"`
}

// ObjectValue is a typed cell value used for date writes.
type ObjectValue struct {
	ObjectType string `json:"objectType"`
	Value      string `json:"value"`
}

// ValueString returns the raw cell value as a string.
// Numbers are formatted without a trailing fraction when they are whole.
func (c Cell) ValueString() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Text returns the display value, falling back to the raw value.
func (c Cell) Text() string {
	if c.DisplayValue != "" {
		return c.DisplayValue
	}
	return c.ValueString()
}

// IsEmpty reports whether the cell carries no value at all.
func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text()) == ""
}

// Record is a row keyed by column title instead of column ID.
type Record struct {
	RowID int64
	Cells map[string]Cell
}

// Cell returns the cell for a column title and whether the row has it.
func (r Record) Cell(title string) (Cell, bool) {
	cell, ok := r.Cells[title]
	return cell, ok
}

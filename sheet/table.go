package sheet

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// dateLayout is the wire form of DATE cells.
const dateLayout = "2006-01-02"

// Table is a fetched sheet plus the column lookups needed to write to it.
type Table struct {
	client  *Client
	sheet   *Sheet
	byTitle map[string]Column
	byID    map[int64]string
}

func newTable(client *Client, s *Sheet) *Table {
	byTitle := make(map[string]Column, len(s.Columns))
	byID := make(map[int64]string, len(s.Columns))
	for _, col := range s.Columns {
		byTitle[col.Title] = col
		byID[col.ID] = col.Title
	}
	return &Table{client: client, sheet: s, byTitle: byTitle, byID: byID}
}

// ID returns the sheet ID.
func (t *Table) ID() int64 {
	return t.sheet.ID
}

// Name returns the sheet name.
func (t *Table) Name() string {
	return t.sheet.Name
}

// RowCount returns the sheet's total row count.
func (t *Table) RowCount() int {
	return t.sheet.TotalRowCount
}

// Columns returns the sheet's columns in sheet order.
func (t *Table) Columns() []Column {
	return t.sheet.Columns
}

// Records returns every row keyed by column title, in sheet order.
func (t *Table) Records() []Record {
	records := make([]Record, 0, len(t.sheet.Rows))
	for _, row := range t.sheet.Rows {
		records = append(records, t.record(row))
	}
	return records
}

func (t *Table) record(row Row) Record {
	cells := make(map[string]Cell, len(row.Cells))
	for _, cell := range row.Cells {
		title, ok := t.byID[cell.ColumnID]
		if !ok {
			continue
		}
		cells[title] = cell
	}
	return Record{RowID: row.ID, Cells: cells}
}

// InsertRow appends one row and returns it as stored. fields maps column
// titles to values.
func (t *Table) InsertRow(ctx context.Context, fields map[string]any) (Record, error) {
	titles := make([]string, 0, len(fields))
	for title := range fields {
		titles = append(titles, title)
	}
	slices.Sort(titles)

	row := Row{ToBottom: true, Cells: make([]Cell, 0, len(titles))}
	for _, title := range titles {
		cell, err := t.cell(title, fields[title])
		if err != nil {
			return Record{}, err
		}
		row.Cells = append(row.Cells, cell)
	}

	t.client.log.Debug("insert row", zap.String("sheet", t.Name()), zap.Strings("columns", titles))
	added, err := t.client.AddRows(ctx, t.ID(), []Row{row})
	if err != nil {
		return Record{}, err
	}
	if len(added) == 0 {
		return Record{}, nil
	}
	return t.record(added[0]), nil
}

// UpdateField writes a single cell. A nil value clears the cell.
func (t *Table) UpdateField(ctx context.Context, rowID int64, column string, value any) error {
	cell, err := t.cell(column, value)
	if err != nil {
		return err
	}
	t.client.log.Debug("update field",
		zap.String("sheet", t.Name()),
		zap.Int64("row", rowID),
		zap.String("column", column),
	)
	if err := t.client.UpdateRows(ctx, t.ID(), []Row{{ID: rowID, Cells: []Cell{cell}}}); err != nil {
		return fmt.Errorf("update row %d: %w", rowID, err)
	}
	return nil
}

// DeleteRows removes rows by ID.
func (t *Table) DeleteRows(ctx context.Context, rowIDs []int64) error {
	t.client.log.Debug("delete rows", zap.String("sheet", t.Name()), zap.Int64s("rows", rowIDs))
	return t.client.DeleteRows(ctx, t.ID(), rowIDs)
}

func (t *Table) cell(title string, value any) (Cell, error) {
	col, ok := t.byTitle[title]
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q", ErrUnknownColumn, title)
	}
	if col.ReadOnly() {
		return Cell{}, fmt.Errorf("%w: %q", ErrReadOnlyColumn, title)
	}

	cell := Cell{ColumnID: col.ID}
	switch v := value.(type) {
	case nil:
		cell.Value = ""
	case time.Time:
		cell.ObjectValue = ObjectValue{ObjectType: objectTypeDate, Value: v.Format(dateLayout)}
	case *time.Time:
		if v == nil {
			cell.Value = ""
		} else {
			cell.ObjectValue = ObjectValue{ObjectType: objectTypeDate, Value: v.Format(dateLayout)}
		}
	case string:
		if col.Type == ColumnDate && v != "" {
			cell.ObjectValue = ObjectValue{ObjectType: objectTypeDate, Value: v}
		} else {
			cell.Value = v
		}
	default:
		cell.Value = v
	}
	return cell, nil
}

package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/sheettodo/sheet"
	"go.uber.org/zap"
)

// Table is the sheet a Store reads and writes. *sheet.Table implements it.
type Table interface {
	Records() []sheet.Record
	InsertRow(ctx context.Context, fields map[string]any) (sheet.Record, error)
	UpdateField(ctx context.Context, rowID int64, column string, value any) error
	DeleteRows(ctx context.Context, rowIDs []int64) error
}

// Database resolves the todo sheet. *sheet.Database implements it.
type Database interface {
	EnsureTable(ctx context.Context, name string, folderID int64, columns []sheet.Column) (*sheet.Table, bool, error)
}

// Options configures a Store.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives operation logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Store is one read of the todo sheet. Rows are decoded once, when the
// store is created; open a new Store for every command so that each
// command sees the sheet's current state.
type Store struct {
	table   Table
	now     func() time.Time
	log     *zap.Logger
	todos   []Todo
	invalid []error
}

// OpenOptions configures Open.
type OpenOptions struct {
	Options

	// FolderID is the folder to create the sheet in when it is missing.
	// Zero disables creation.
	FolderID int64
}

// Open fetches the sheet named name and returns a Store over it.
func Open(ctx context.Context, db Database, name string, opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(name) == "" {
		return nil, MissingArgument("table name")
	}
	table, created, err := db.EnsureTable(ctx, name, opts.FolderID, Columns())
	if err != nil {
		return nil, err
	}
	store := NewStore(table, opts.Options)
	if created {
		store.log.Info("created todo sheet", zap.String("name", name), zap.Int64("folder", opts.FolderID))
	}
	return store, nil
}

// NewStore decodes every row of table.
func NewStore(table Table, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{table: table, now: now, log: logger.Named("todo")}

	for _, record := range table.Records() {
		t, err := Decode(record)
		if err != nil {
			s.log.Warn("row has unreadable cells", zap.Int64("row", record.RowID), zap.Error(err))
			s.invalid = append(s.invalid, err)
		}
		s.todos = append(s.todos, t)
	}
	return s
}

// List returns every todo in sheet order.
func (s *Store) List() []Todo {
	return append([]Todo(nil), s.todos...)
}

// Invalid returns one decode error per row with unreadable cells. Those
// rows are still listed with the failing fields unset.
func (s *Store) Invalid() []error {
	return append([]error(nil), s.invalid...)
}

// Find returns the todo whose Id column equals id.
func (s *Store) Find(id string) (Todo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Todo{}, MissingArgument("id")
	}
	for _, t := range s.todos {
		if t.ID == id {
			return t, nil
		}
	}
	return Todo{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// CreateOptions holds raw field input for a new todo.
// Empty strings mean "unset".
type CreateOptions struct {
	Task    string
	DueDate string
	Notes   string
	Status  string
}

// Create validates opts and inserts a new row.
func (s *Store) Create(ctx context.Context, opts CreateOptions) (Todo, error) {
	if strings.TrimSpace(opts.Task) == "" {
		return Todo{}, MissingArgument("task")
	}
	t := Todo{Task: opts.Task, Notes: opts.Notes}
	if opts.DueDate != "" {
		due, err := ParseDate(opts.DueDate)
		if err != nil {
			return Todo{}, err
		}
		t.DueDate = &due
	}
	if opts.Status != "" {
		status, err := ParseStatus(opts.Status)
		if err != nil {
			return Todo{}, err
		}
		t.Status = status
	}
	if err := s.Save(ctx, &t); err != nil {
		return Todo{}, err
	}
	return t, nil
}

// Save inserts t as a new row. It never updates: a todo that already has
// a backing row returns ErrAlreadySaved. On success t gets its ID and RowID.
func (s *Store) Save(ctx context.Context, t *Todo) error {
	if t.HasBackingRecord() {
		return fmt.Errorf("%w: %s", ErrAlreadySaved, t.ID)
	}
	if strings.TrimSpace(t.Task) == "" {
		return ErrEmptyTask
	}
	if t.Status != "" && !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}

	record, err := s.table.InsertRow(ctx, Encode(*t))
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.RowID = record.RowID
	if cell, ok := record.Cell(ColumnID); ok {
		t.ID = decodeText(cell, true)
	}
	s.log.Info("todo created", zap.String("id", t.ID), zap.Int64("row", t.RowID))
	return nil
}

// Finish marks t completed today. Finishing a completed todo rewrites the
// date.
func (s *Store) Finish(ctx context.Context, t *Todo) error {
	if err := requireRow(t); err != nil {
		return err
	}
	today := DatePtr(s.now())
	if err := s.table.UpdateField(ctx, t.RowID, ColumnCompletedAt, FormatDate(today)); err != nil {
		return fmt.Errorf("finish todo %s: %w", t.ID, err)
	}
	t.CompletedAt = today
	s.log.Info("todo finished", zap.String("id", t.ID), zap.Int64("row", t.RowID))
	return nil
}

// Unfinish clears t's completion date. The clear is written even when t is
// already open.
func (s *Store) Unfinish(ctx context.Context, t *Todo) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if err := s.table.UpdateField(ctx, t.RowID, ColumnCompletedAt, nil); err != nil {
		return fmt.Errorf("unfinish todo %s: %w", t.ID, err)
	}
	t.CompletedAt = nil
	s.log.Info("todo unfinished", zap.String("id", t.ID), zap.Int64("row", t.RowID))
	return nil
}

// Delete removes t's row. Afterwards t has no backing row, so further
// mutations return ErrMissingBackingRecord.
func (s *Store) Delete(ctx context.Context, t *Todo) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if err := s.table.DeleteRows(ctx, []int64{t.RowID}); err != nil {
		return fmt.Errorf("delete todo %s: %w", t.ID, err)
	}
	s.log.Info("todo deleted", zap.String("id", t.ID), zap.Int64("row", t.RowID))
	t.RowID = 0
	return nil
}

// UpdateTask sets the task. Empty input is no change.
func (s *Store) UpdateTask(ctx context.Context, t *Todo, task string) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if strings.TrimSpace(task) == "" {
		return nil
	}
	if err := s.write(ctx, t, ColumnTask, task); err != nil {
		return err
	}
	t.Task = task
	return nil
}

// UpdateDueDate sets the due date from YYYY-MM-DD input. Empty input is no
// change.
func (s *Store) UpdateDueDate(ctx context.Context, t *Todo, input string) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		return nil
	}
	due, err := ParseDate(input)
	if err != nil {
		return err
	}
	if err := s.write(ctx, t, ColumnDueDate, FormatDate(&due)); err != nil {
		return err
	}
	t.DueDate = &due
	return nil
}

// UpdateNotes sets the notes. Empty input is no change.
func (s *Store) UpdateNotes(ctx context.Context, t *Todo, notes string) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if strings.TrimSpace(notes) == "" {
		return nil
	}
	if err := s.write(ctx, t, ColumnNotes, notes); err != nil {
		return err
	}
	t.Notes = notes
	return nil
}

// UpdateStatus sets the status. Input is matched case-insensitively; empty
// input is no change.
func (s *Store) UpdateStatus(ctx context.Context, t *Todo, input string) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		return nil
	}
	status, err := ParseStatus(input)
	if err != nil {
		return err
	}
	if err := s.write(ctx, t, ColumnStatus, string(status)); err != nil {
		return err
	}
	t.Status = status
	return nil
}

// UpdateOptions holds raw field input for an update.
// Empty strings mean "no change".
type UpdateOptions struct {
	Task    string
	DueDate string
	Notes   string
	Status  string
}

// IsEmpty reports whether the options change nothing.
func (o UpdateOptions) IsEmpty() bool {
	return strings.TrimSpace(o.Task) == "" &&
		strings.TrimSpace(o.DueDate) == "" &&
		strings.TrimSpace(o.Notes) == "" &&
		strings.TrimSpace(o.Status) == ""
}

// Update validates every field first, then writes the due date, task,
// notes and status in that order.
func (s *Store) Update(ctx context.Context, t *Todo, opts UpdateOptions) error {
	if err := requireRow(t); err != nil {
		return err
	}
	if strings.TrimSpace(opts.DueDate) != "" {
		if _, err := ParseDate(opts.DueDate); err != nil {
			return err
		}
	}
	if strings.TrimSpace(opts.Status) != "" {
		if _, err := ParseStatus(opts.Status); err != nil {
			return err
		}
	}

	if err := s.UpdateDueDate(ctx, t, opts.DueDate); err != nil {
		return err
	}
	if err := s.UpdateTask(ctx, t, opts.Task); err != nil {
		return err
	}
	if err := s.UpdateNotes(ctx, t, opts.Notes); err != nil {
		return err
	}
	return s.UpdateStatus(ctx, t, opts.Status)
}

func (s *Store) write(ctx context.Context, t *Todo, column string, value any) error {
	if err := s.table.UpdateField(ctx, t.RowID, column, value); err != nil {
		return fmt.Errorf("update todo %s %s: %w", t.ID, column, err)
	}
	s.log.Info("todo updated", zap.String("id", t.ID), zap.Int64("row", t.RowID), zap.String("column", column))
	return nil
}

func requireRow(t *Todo) error {
	if t == nil || !t.HasBackingRecord() {
		id := ""
		if t != nil {
			id = t.ID
		}
		if id == "" {
			return ErrMissingBackingRecord
		}
		return fmt.Errorf("%w: %s", ErrMissingBackingRecord, id)
	}
	return nil
}

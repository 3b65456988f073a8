// Package shell implements the interactive todo prompt.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amonks/sheettodo/internal/argparse"
	"github.com/amonks/sheettodo/internal/editor"
	"github.com/amonks/sheettodo/internal/ui"
	"github.com/amonks/sheettodo/sheet"
	"github.com/amonks/sheettodo/todo"
	"go.uber.org/zap"
)

// Prompt is printed before each interactive line.
const Prompt = "> "

// Database is the backend a Session talks to. *sheet.Database implements it.
type Database interface {
	todo.Database
	ListTables(ctx context.Context) ([]string, error)
}

// EditFunc opens a todo for editing and returns the edited fields.
type EditFunc func(todo.Todo) (*editor.ParsedTodo, error)

// Options configures a Session.
type Options struct {
	DB        Database
	SheetName string

	// FolderID is where the sheet is created when missing. Zero disables
	// creation.
	FolderID int64

	// Stdout receives user-facing output. Defaults to os.Stdout.
	Stdout io.Writer

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// Edit defaults to editor.EditTodo.
	Edit EditFunc

	// Width is the output width for wrapped text. Zero means the
	// terminal width.
	Width int
}

// Session is one run of the shell. Its history is never persisted.
type Session struct {
	db        Database
	sheetName string
	folderID  int64
	out       io.Writer
	log       *zap.Logger
	now       func() time.Time
	edit      EditFunc
	width     int
	history   []string
}

// New returns a Session.
func New(opts Options) *Session {
	s := &Session{
		db:        opts.DB,
		sheetName: opts.SheetName,
		folderID:  opts.FolderID,
		out:       opts.Stdout,
		log:       opts.Logger,
		now:       opts.Now,
		edit:      opts.Edit,
		width:     opts.Width,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.edit == nil {
		s.edit = editor.EditTodo
	}
	if s.width <= 0 {
		s.width = ui.TerminalWidth()
	}
	return s
}

// History returns the commands entered so far.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// LineReader supplies input lines. ReadLine returns io.EOF at end of input
// and ErrInterrupted when the user aborts the prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Run reads and executes lines until EOF, an interrupt, or exit. Command
// errors are printed and the loop continues.
func (s *Session) Run(ctx context.Context, reader LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := reader.ReadLine(Prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			s.log.Debug("command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintln(s.out, FormatError(err))
		}
	}
}

// Execute runs one line of input. Blank lines do nothing.
func (s *Session) Execute(ctx context.Context, line string) error {
	in := ParseInput(line)
	if in.Name == "" {
		return nil
	}
	if in.Command != CommandHistory && in.Command != CommandClear {
		s.history = append(s.history, strings.TrimSpace(line))
	}
	s.log.Debug("execute", zap.String("command", in.Name), zap.String("args", in.Rest))
	return s.Dispatch(ctx, in)
}

// Dispatch runs a parsed command without recording it in history.
func (s *Session) Dispatch(ctx context.Context, in Input) error {
	switch in.Command {
	case CommandList:
		return s.list(ctx, todo.FilterUnfinished)
	case CommandListAll:
		return s.list(ctx, todo.FilterAll)
	case CommandWeek:
		return s.list(ctx, todo.FilterWeek)
	case CommandSee:
		return s.see(ctx, in)
	case CommandCreate:
		return s.create(ctx, in)
	case CommandSet:
		return s.set(ctx, in)
	case CommandDelete:
		return s.remove(ctx, in)
	case CommandFinish:
		return s.finish(ctx, in)
	case CommandUnfinish:
		return s.unfinish(ctx, in)
	case CommandEdit:
		return s.editTodo(ctx, in)
	case CommandTables:
		return s.tables(ctx)
	case CommandHistory:
		s.printHistory()
		return nil
	case CommandClear:
		s.history = nil
		fmt.Fprintln(s.out, "History cleared")
		return nil
	case CommandExit:
		return ErrExit
	case CommandHelp, CommandUnknown:
		fmt.Fprint(s.out, HelpText)
		return nil
	default:
		return fmt.Errorf("unhandled command %d", in.Command)
	}
}

func (s *Session) open(ctx context.Context) (*todo.Store, error) {
	return todo.Open(ctx, s.db, s.sheetName, todo.OpenOptions{
		Options:  todo.Options{Now: s.now, Logger: s.log},
		FolderID: s.folderID,
	})
}

// lookup opens a fresh store and finds the todo named by the first argument.
func (s *Session) lookup(ctx context.Context, in Input) (*todo.Store, todo.Todo, error) {
	if len(in.Args) == 0 {
		return nil, todo.Todo{}, todo.MissingArgument("id")
	}
	id := in.Args[0]
	store, err := s.open(ctx)
	if err != nil {
		return nil, todo.Todo{}, err
	}
	t, err := store.Find(id)
	if errors.Is(err, todo.ErrNotFound) {
		return nil, todo.Todo{}, &lookupError{ID: id, Err: err}
	}
	if err != nil {
		return nil, todo.Todo{}, err
	}
	return store, t, nil
}

func (s *Session) list(ctx context.Context, filter todo.Filter) error {
	store, err := s.open(ctx)
	if err != nil {
		return err
	}
	view := todo.View(store.List(), filter, s.now())
	fmt.Fprint(s.out, ui.FormatRows(todo.TableRows(view)))
	if invalid := store.Invalid(); len(invalid) > 0 {
		fmt.Fprintf(s.out, "warning: %d row(s) have unreadable cells\n", len(invalid))
	}
	return nil
}

func (s *Session) see(ctx context.Context, in Input) error {
	_, t, err := s.lookup(ctx, in)
	if err != nil {
		return err
	}
	printTodoDetail(s.out, t, s.width)
	return nil
}

// fieldArgs maps key:value arguments onto update options. date is an alias
// for due_date.
func fieldArgs(rest string) todo.UpdateOptions {
	args := argparse.Parse(rest)
	due, ok := args["due_date"]
	if !ok {
		due = args["date"]
	}
	return todo.UpdateOptions{
		Task:    args["task"],
		DueDate: due,
		Notes:   args["notes"],
		Status:  args["status"],
	}
}

func (s *Session) create(ctx context.Context, in Input) error {
	fields := fieldArgs(in.Rest)
	store, err := s.open(ctx)
	if err != nil {
		return err
	}
	t, err := store.Create(ctx, todo.CreateOptions{
		Task:    fields.Task,
		DueDate: fields.DueDate,
		Notes:   fields.Notes,
		Status:  fields.Status,
	})
	if err != nil {
		return err
	}
	if t.ID != "" {
		fmt.Fprintf(s.out, "Created todo %s\n", t.ID)
	} else {
		fmt.Fprintln(s.out, "Created todo")
	}
	return nil
}

func (s *Session) set(ctx context.Context, in Input) error {
	_, rest := splitWord(in.Rest)
	fields := fieldArgs(rest)
	store, t, err := s.lookup(ctx, in)
	if err != nil {
		return err
	}
	if fields.IsEmpty() {
		fmt.Fprintf(s.out, "Nothing to update for todo %s\n", t.ID)
		return nil
	}
	if err := store.Update(ctx, &t, fields); err != nil {
		return writeError(t.ID, err)
	}
	fmt.Fprintf(s.out, "Updated todo %s\n", t.ID)
	return nil
}

func (s *Session) remove(ctx context.Context, in Input) error {
	store, t, err := s.lookup(ctx, in)
	if err != nil {
		return err
	}
	id := t.ID
	if err := store.Delete(ctx, &t); err != nil {
		return writeError(id, err)
	}
	fmt.Fprintf(s.out, "Deleted todo %s\n", id)
	return nil
}

func (s *Session) finish(ctx context.Context, in Input) error {
	store, t, err := s.lookup(ctx, in)
	if err != nil {
		return err
	}
	if err := store.Finish(ctx, &t); err != nil {
		return writeError(t.ID, err)
	}
	fmt.Fprintf(s.out, "Finished todo %s\n", t.ID)
	return nil
}

func (s *Session) unfinish(ctx context.Context, in Input) error {
	store, t, err := s.lookup(ctx, in)
	if err != nil {
		return err
	}
	if err := store.Unfinish(ctx, &t); err != nil {
		return writeError(t.ID, err)
	}
	fmt.Fprintf(s.out, "Reopened todo %s\n", t.ID)
	return nil
}

func (s *Session) editTodo(ctx context.Context, in Input) error {
	store, t, err := s.lookup(ctx, in)
	if err != nil {
		return err
	}
	parsed, err := s.edit(t)
	if err != nil {
		return err
	}
	opts := parsed.ToUpdateOptions(t)
	if opts.IsEmpty() {
		fmt.Fprintf(s.out, "No changes to todo %s\n", t.ID)
		return nil
	}
	if err := store.Update(ctx, &t, opts); err != nil {
		return writeError(t.ID, err)
	}
	fmt.Fprintf(s.out, "Updated todo %s\n", t.ID)
	return nil
}

func (s *Session) tables(ctx context.Context) error {
	names, err := s.db.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		marker := " "
		if name == s.sheetName {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, name)
	}
	return nil
}

func (s *Session) printHistory() {
	for i, line := range s.history {
		fmt.Fprintf(s.out, "%4d  %s\n", i+1, line)
	}
}

var _ Database = (*sheet.Database)(nil)

package shell_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/amonks/sheettodo/internal/editor"
	"github.com/amonks/sheettodo/sheet"
	"github.com/amonks/sheettodo/sheet/sheettest"
	"github.com/amonks/sheettodo/shell"
	"github.com/amonks/sheettodo/todo"
	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	server  *sheettest.Server
	sheetID int64
	session *shell.Session
	out     *bytes.Buffer
	edited  *editor.ParsedTodo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{server: sheettest.NewTestServer(t), out: &bytes.Buffer{}}
	f.sheetID = f.server.AddSheet("Todos", todo.Columns())
	f.session = f.newSession("Todos", 0)
	return f
}

func (f *fixture) newSession(name string, folderID int64) *shell.Session {
	client := sheet.NewClient(sheet.Options{BaseURL: f.server.URL(), Token: sheettest.Token})
	return shell.New(shell.Options{
		DB:        sheet.NewDatabase(client),
		SheetName: name,
		FolderID:  folderID,
		Stdout:    f.out,
		Now:       func() time.Time { return fixedNow },
		Width:     80,
		Edit: func(todo.Todo) (*editor.ParsedTodo, error) {
			if f.edited == nil {
				return nil, errors.New("no edit configured")
			}
			return f.edited, nil
		},
	})
}

func (f *fixture) exec(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	if err := f.session.Execute(context.Background(), line); err != nil {
		t.Fatalf("Execute(%q) error: %v", line, err)
	}
	return f.out.String()
}

func (f *fixture) execErr(t *testing.T, line string) error {
	t.Helper()
	f.out.Reset()
	err := f.session.Execute(context.Background(), line)
	if err == nil {
		t.Fatalf("Execute(%q) succeeded, want error", line)
	}
	return err
}

func (f *fixture) addRow(values map[string]any) {
	f.server.AddRow(f.sheetID, values)
}

func TestCreateAndList(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	f := newFixture(t)

	out := f.exec(t, `create task:"buy milk" due_date:2024-05-16 notes:"2%"`)
	if out != "Created todo 1\n" {
		t.Errorf("create output = %q", out)
	}

	out = f.exec(t, "ls")
	want := "" +
		"Id  Task      Due_Date    Completed_At  Status\n" +
		"1   buy milk  2024-05-16  -             -\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("ls output mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmpty(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	f := newFixture(t)

	want := "Id  Task  Due_Date  Completed_At  Status\n"
	for _, line := range []string{"ls", "la", "week"} {
		if diff := cmp.Diff(want, f.exec(t, line)); diff != "" {
			t.Errorf("%s output mismatch (-want +got):\n%s", line, diff)
		}
	}
}

func TestListKeepsRowsWithUnknownStatus(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "legacy", "Status": "Blocked"})

	want := "" +
		"Id  Task    Due_Date  Completed_At  Status\n" +
		"1   legacy  -         -             Blocked\n"
	if diff := cmp.Diff(want, f.exec(t, "la")); diff != "" {
		t.Errorf("la output mismatch (-want +got):\n%s", diff)
	}
	if out := f.exec(t, "see 1"); !strings.Contains(out, "Status:       Blocked") {
		t.Errorf("see output = %q, want raw status", out)
	}

	if out := f.exec(t, "rm 1"); out != "Deleted todo 1\n" {
		t.Errorf("rm output = %q", out)
	}
	if rows := f.server.Rows(f.sheetID); len(rows) != 0 {
		t.Errorf("expected the row to be deleted, %d left", len(rows))
	}
}

func TestListWarnsAboutUnreadableCells(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "odd date", "DueDate": "soon"})

	want := "" +
		"Id  Task      Due_Date  Completed_At  Status\n" +
		"1   odd date  -         -             -\n" +
		"warning: 1 row(s) have unreadable cells\n"
	if diff := cmp.Diff(want, f.exec(t, "ls")); diff != "" {
		t.Errorf("ls output mismatch (-want +got):\n%s", diff)
	}
	if out := f.exec(t, "finish 1"); out != "Finished todo 1\n" {
		t.Errorf("finish output = %q", out)
	}
}

func TestWriteToRemovedRow(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "gone"})

	for _, line := range []string{"finish 1", "set 1 task:x", "rm 1"} {
		f.server.FailNextWith("PUT /sheets/", http.StatusNotFound)
		f.server.FailNextWith("DELETE /sheets/", http.StatusNotFound)
		err := f.execErr(t, line)
		if got := shell.FormatError(err); got != "Unable to find with id 1" {
			t.Errorf("%s: FormatError = %q, want lookup failure", line, got)
		}
		f.server.ResetFailures()
	}
}

func TestCreateDateAlias(t *testing.T) {
	f := newFixture(t)
	f.exec(t, "create task:x date:2024-05-17")

	out := f.exec(t, "see 1")
	if !strings.Contains(out, "Due date:     2024-05-17") {
		t.Errorf("see output = %q, want due date from date: alias", out)
	}
}

func TestCreateRequiresTask(t *testing.T) {
	f := newFixture(t)
	err := f.execErr(t, "create due_date:2024-05-16")
	if !errors.Is(err, todo.ErrMissingArgument) {
		t.Errorf("create error = %v, want ErrMissingArgument", err)
	}
	if len(f.server.Writes()) != 0 {
		t.Error("failed create should not write")
	}
}

func TestSee(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{
		"TaskName": "write report",
		"DueDate":  "2024-05-18",
		"Notes":    `first line\nsecond line`,
		"Status":   "In Progress",
	})

	out := f.exec(t, "see 1")
	for _, want := range []string{
		"Id:           1\n",
		"Task:         write report\n",
		"Due date:     2024-05-18\n",
		"Completed at: -\n",
		"Status:       In Progress\n",
		"Notes:",
		"first line",
		"second line",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("see output missing %q:\n%s", want, out)
		}
	}
}

func TestLookupErrors(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "only"})

	err := f.execErr(t, "see 42")
	if !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("see error = %v, want ErrNotFound", err)
	}
	if got := shell.FormatError(err); got != "Unable to find with id 42" {
		t.Errorf("FormatError = %q", got)
	}

	for _, line := range []string{"see", "finish", "unfinish", "rm", "set", "edit"} {
		err := f.execErr(t, line)
		if !errors.Is(err, todo.ErrMissingArgument) {
			t.Errorf("%s error = %v, want ErrMissingArgument", line, err)
		}
		if got := shell.FormatError(err); got != "error: missing argument: id" {
			t.Errorf("%s FormatError = %q", line, got)
		}
	}
}

func TestFinishAndUnfinish(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "open"})
	f.addRow(map[string]any{"TaskName": "closing"})

	if out := f.exec(t, "finish 2"); out != "Finished todo 2\n" {
		t.Errorf("finish output = %q", out)
	}
	if out := f.exec(t, "see 2"); !strings.Contains(out, "Completed at: 2024-05-15") {
		t.Errorf("see after finish = %q", out)
	}
	if out := f.exec(t, "ls"); strings.Contains(out, "closing") {
		t.Errorf("ls should hide finished todos:\n%s", out)
	}
	if out := f.exec(t, "ls -a"); !strings.Contains(out, "closing") {
		t.Errorf("ls -a should show finished todos:\n%s", out)
	}

	if out := f.exec(t, "unfinish 2"); out != "Reopened todo 2\n" {
		t.Errorf("unfinish output = %q", out)
	}
	if out := f.exec(t, "ls"); !strings.Contains(out, "closing") {
		t.Errorf("ls should show reopened todo:\n%s", out)
	}
}

func TestWeek(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "this saturday", "DueDate": "2024-05-18"})
	f.addRow(map[string]any{"TaskName": "next monday", "DueDate": "2024-05-20"})
	f.addRow(map[string]any{"TaskName": "undated"})
	f.addRow(map[string]any{"TaskName": "done sunday", "DueDate": "2024-05-12", "CompletedAt": "2024-05-13"})

	want := "" +
		"Id  Task           Due_Date    Completed_At  Status\n" +
		"1   this saturday  2024-05-18  -             -\n"
	if diff := cmp.Diff(want, f.exec(t, "week")); diff != "" {
		t.Errorf("week output mismatch (-want +got):\n%s", diff)
	}
}

func TestSet(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "old"})

	if out := f.exec(t, `set 1 task:"new task" status:"active sprint" date:2024-06-01`); out != "Updated todo 1\n" {
		t.Errorf("set output = %q", out)
	}
	out := f.exec(t, "see 1")
	for _, want := range []string{"Task:         new task", "Status:       Active Sprint", "Due date:     2024-06-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("see after set missing %q:\n%s", want, out)
		}
	}

	f.server.ResetRequests()
	if out := f.exec(t, "set 1"); out != "Nothing to update for todo 1\n" {
		t.Errorf("empty set output = %q", out)
	}
	if len(f.server.Writes()) != 0 {
		t.Error("empty set should not write")
	}
}

func TestSetValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "old"})
	f.server.ResetRequests()

	err := f.execErr(t, "set 1 task:new due_date:tomorrow")
	if !errors.Is(err, todo.ErrInvalidDate) {
		t.Errorf("set error = %v, want ErrInvalidDate", err)
	}
	err = f.execErr(t, "set 1 task:new status:someday")
	if !errors.Is(err, todo.ErrInvalidStatus) {
		t.Errorf("set error = %v, want ErrInvalidStatus", err)
	}
	if len(f.server.Writes()) != 0 {
		t.Error("invalid set should not write")
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "doomed"})

	if out := f.exec(t, "rm 1"); out != "Deleted todo 1\n" {
		t.Errorf("rm output = %q", out)
	}
	if rows := f.server.Rows(f.sheetID); len(rows) != 0 {
		t.Errorf("expected no rows after rm, got %d", len(rows))
	}
	err := f.execErr(t, "delete 1")
	if !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestEdit(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "draft", "Status": "Backlog"})

	f.edited = &editor.ParsedTodo{Task: "draft", Status: "Backlog"}
	f.server.ResetRequests()
	if out := f.exec(t, "edit 1"); out != "No changes to todo 1\n" {
		t.Errorf("unchanged edit output = %q", out)
	}
	if len(f.server.Writes()) != 0 {
		t.Error("unchanged edit should not write")
	}

	f.edited = &editor.ParsedTodo{Task: "final", Status: "Done", Notes: "line one\nline two"}
	if out := f.exec(t, "edit 1"); out != "Updated todo 1\n" {
		t.Errorf("edit output = %q", out)
	}
	out := f.exec(t, "see 1")
	for _, want := range []string{"Task:         final", "Status:       Done", "line two"} {
		if !strings.Contains(out, want) {
			t.Errorf("see after edit missing %q:\n%s", want, out)
		}
	}
}

func TestTables(t *testing.T) {
	f := newFixture(t)
	f.server.AddSheet("Other", todo.Columns())

	out := f.exec(t, "tables")
	if out != "* Todos\n  Other\n" {
		t.Errorf("tables output = %q", out)
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	f.exec(t, "help")
	f.exec(t, "  ls  ")
	f.exec(t, "history")
	f.exec(t, "")

	if diff := cmp.Diff([]string{"help", "ls"}, f.session.History()); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
	out := f.exec(t, "history")
	if out != "   1  help\n   2  ls\n" {
		t.Errorf("history output = %q", out)
	}

	if out := f.exec(t, "clear"); out != "History cleared\n" {
		t.Errorf("clear output = %q", out)
	}
	if len(f.session.History()) != 0 {
		t.Errorf("history after clear = %q", f.session.History())
	}
}

func TestHelpAndUnknown(t *testing.T) {
	f := newFixture(t)
	help := f.exec(t, "help")
	if !strings.Contains(help, `"Active Sprint"`) || !strings.Contains(help, "finish <id>") {
		t.Errorf("help output = %q", help)
	}
	if out := f.exec(t, "frobnicate"); out != help {
		t.Errorf("unknown command should print help, got %q", out)
	}
}

func TestExit(t *testing.T) {
	f := newFixture(t)
	for _, line := range []string{"exit", "quit"} {
		if err := f.session.Execute(context.Background(), line); !errors.Is(err, shell.ErrExit) {
			t.Errorf("Execute(%q) = %v, want ErrExit", line, err)
		}
	}
}

func TestMissingSheet(t *testing.T) {
	f := newFixture(t)
	f.session = f.newSession("Nope", 0)

	err := f.execErr(t, "ls")
	if !errors.Is(err, sheet.ErrTableNotFound) {
		t.Errorf("ls error = %v, want ErrTableNotFound", err)
	}
}

func TestCreatesSheetInFolder(t *testing.T) {
	f := newFixture(t)
	f.session = f.newSession("Fresh", 77)

	f.exec(t, "create task:first")
	if f.server.SheetID("Fresh") == 0 {
		t.Fatal("expected sheet Fresh to be created")
	}
	if out := f.exec(t, "ls"); !strings.Contains(out, "first") {
		t.Errorf("ls output = %q", out)
	}
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "alpha"})

	input := strings.NewReader("ls\nsee 99\n\nfinish\nexit\nls\n")
	if err := f.session.Run(context.Background(), shell.NewScannerReader(input)); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "alpha") {
		t.Errorf("Run output missing list:\n%s", out)
	}
	if !strings.Contains(out, "Unable to find with id 99\n") {
		t.Errorf("Run output missing lookup error:\n%s", out)
	}
	if !strings.Contains(out, "error: missing argument: id\n") {
		t.Errorf("Run output missing argument error:\n%s", out)
	}
	if diff := cmp.Diff([]string{"ls", "see 99", "finish", "exit"}, f.session.History()); diff != "" {
		t.Errorf("Run should stop at exit (-want +got):\n%s", diff)
	}
}

func TestRunSurvivesBackendErrors(t *testing.T) {
	f := newFixture(t)
	f.addRow(map[string]any{"TaskName": "alpha"})
	f.server.FailNext("GET /sheets")

	input := strings.NewReader("ls\nls\n")
	if err := f.session.Run(context.Background(), shell.NewScannerReader(input)); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "backend error: ") {
		t.Errorf("Run output missing backend error:\n%s", out)
	}
	if !strings.Contains(out, "alpha") {
		t.Errorf("second ls should succeed:\n%s", out)
	}
}

type interruptReader struct{}

func (interruptReader) ReadLine(string) (string, error) {
	return "", shell.ErrInterrupted
}

func TestRunInterrupted(t *testing.T) {
	f := newFixture(t)
	if err := f.session.Run(context.Background(), interruptReader{}); err != nil {
		t.Errorf("Run error = %v, want nil on interrupt", err)
	}
}

package shell

import (
	"fmt"
	"io"

	"github.com/amonks/sheettodo/internal/markdown"
	"github.com/amonks/sheettodo/internal/ui"
	"github.com/amonks/sheettodo/internal/validation"
	"github.com/amonks/sheettodo/todo"
)

// HelpText lists the shell commands.
var HelpText = `Commands:
  help - see this help
  ls - list uncompleted todos
  ls -a, la - list all (uncompleted and completed) todos
  week - list uncompleted todos that are due this week
  see <id> - see the todo
  create task:foo due_date:2023-12-12 notes:"Some notes" - create todo
  set <id> due_date:2023-12-12 - set due date (date: also works)
  set <id> task:"Do something" - set task
  set <id> notes:"Some notes" - set notes
  set <id> status:"Backlog" - valid values are ` + statusNames() + `
  edit <id> - edit the todo in $EDITOR
  rm <id> - delete todo
  finish <id> - mark as completed
  unfinish <id> - mark as uncompleted
  tables - list sheets
  history - see ephemeral command history
  clear - clear ephemeral command history
  exit - leave the shell
`

func statusNames() string {
	return validation.FormatQuotedValues(todo.ValidStatuses())
}

const detailIndent = 14

func printTodoDetail(w io.Writer, t todo.Todo, width int) {
	fmt.Fprintf(w, "Id:           %s\n", t.ID)
	fmt.Fprintf(w, "Task:         %s\n", ui.Wrap(t.Task, width, detailIndent))
	fmt.Fprintf(w, "Due date:     %s\n", orDash(todo.FormatDate(t.DueDate)))
	fmt.Fprintf(w, "Completed at: %s\n", orDash(todo.FormatDate(t.CompletedAt)))
	fmt.Fprintf(w, "Status:       %s\n", t.StatusOrDefault())

	if notes := markdown.Notes(t.Notes, width, 2); notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Notes:")
		fmt.Fprintln(w, notes)
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

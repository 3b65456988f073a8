package main

import (
	"github.com/amonks/sheettodo/internal/listflags"
	"github.com/amonks/sheettodo/shell"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List unfinished todos",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if lsAll {
			return runLine(cmd, "ls -a")
		}
		return runLine(cmd, "ls")
	},
}

var lsAll bool

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "List unfinished todos due this week",
	Args:  cobra.NoArgs,
	RunE:  runShellCommand("week"),
}

var seeCmd = &cobra.Command{
	Use:   "see <id>",
	Short: "Show a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runShellCommand("see"),
}

var createCmd = &cobra.Command{
	Use:   "create task:<task> [due_date:YYYY-MM-DD] [notes:<notes>] [status:<status>]",
	Short: "Create a todo",
	Long: `Create a todo.

Fields are given as key:value pairs. Quote values that contain spaces,
for example: sheettodo create "task:buy milk" date:2024-05-18`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShellCommand("create"),
}

var setCmd = &cobra.Command{
	Use:   "set <id> key:value...",
	Short: "Update fields of a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShellCommand("set"),
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "remove"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE:    runShellCommand("rm"),
}

var finishCmd = &cobra.Command{
	Use:   "finish <id>",
	Short: "Mark a todo completed today",
	Args:  cobra.ExactArgs(1),
	RunE:  runShellCommand("finish"),
}

var unfinishCmd = &cobra.Command{
	Use:   "unfinish <id>",
	Short: "Clear a todo's completion date",
	Args:  cobra.ExactArgs(1),
	RunE:  runShellCommand("unfinish"),
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a todo in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runShellCommand("edit"),
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List sheet names",
	Args:  cobra.NoArgs,
	RunE:  runShellCommand("tables"),
}

func init() {
	rootCmd.AddCommand(lsCmd, weekCmd, seeCmd, createCmd, setCmd, rmCmd, finishCmd, unfinishCmd, editCmd, tablesCmd)

	listflags.AddAllFlag(lsCmd, &lsAll)
}

// runShellCommand runs the shell command name with the subcommand's
// arguments.
func runShellCommand(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runLine(cmd, shell.JoinArgs(append([]string{name}, args...)))
	}
}

func runLine(cmd *cobra.Command, line string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.session.Execute(cmd.Context(), line)
}

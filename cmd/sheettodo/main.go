// Package main implements the sheettodo CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/amonks/sheettodo/internal/ui"
	"github.com/amonks/sheettodo/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, shell.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sheettodo",
	Short: "Manage todos stored in a Smartsheet sheet",
	Long: `Manage todos stored in a Smartsheet sheet.

With no arguments, sheettodo starts an interactive shell. Type "help" at
the prompt for its commands. Every shell command is also available as a
subcommand that runs once and exits.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runShell,
}

var (
	rootConfigPath string
	rootSheet      string
	rootFolder     string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file (default ~/.config/sheettodo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&rootSheet, "sheet", "", "Sheet holding the todos (overrides SHEET_NAME)")
	rootCmd.PersistentFlags().StringVar(&rootFolder, "folder", "", "Folder ID to create the sheet in when it is missing")
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "Write debug logs to stderr")
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var reader shell.LineReader
	if ui.IsTerminal(os.Stdin) {
		lineReader := shell.NewLinerReader()
		defer lineReader.Close()
		reader = lineReader
		fmt.Fprintf(cmd.OutOrStdout(), "sheettodo on %q. Type help for commands.\n", a.cfg.Sheet.Name)
	} else {
		reader = shell.NewScannerReader(cmd.InOrStdin())
	}

	a.log.Info("shell started")
	err = a.session.Run(cmd.Context(), reader)
	a.log.Info("shell stopped", zap.Int("commands", len(a.session.History())))
	return err
}

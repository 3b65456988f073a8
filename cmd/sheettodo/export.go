package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/sheettodo/todo"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write todos as YAML or JSON",
	Long: `Write todos as YAML or JSON.

Output goes to stdout unless --output names a file. Files are replaced
atomically.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
	exportFilter string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	addExportFlagAliases(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Output format (yaml, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportFilter, "filter", "all", "Which todos to export (unfinished, all, week)")
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := todo.ParseFilter(exportFilter)
	if err != nil {
		return err
	}
	if _, err := encodeTodos(nil, exportFormat); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	todos := todo.View(store.List(), filter, time.Now())
	data, err := encodeTodos(todos, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" || exportOutput == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := atomic.WriteFile(exportOutput, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	a.log.Info("exported todos", zap.Int("count", len(todos)), zap.String("path", exportOutput))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d todos to %s\n", len(todos), exportOutput)
	return nil
}

func encodeTodos(todos []todo.Todo, format string) ([]byte, error) {
	if todos == nil {
		todos = []todo.Todo{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(todos, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(todos)
	default:
		return nil, fmt.Errorf("unsupported export format %q (use yaml or json)", format)
	}
}

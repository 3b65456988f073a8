package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestExportAliasesUseSingleFlag(t *testing.T) {
	var format, output string
	cmd := &cobra.Command{Use: "example"}
	addExportFlagAliases(cmd)
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")

	if err := cmd.Flags().Set("fmt", "json"); err != nil {
		t.Fatalf("set fmt alias: %v", err)
	}
	if err := cmd.Flags().Set("out", "todos.json"); err != nil {
		t.Fatalf("set out alias: %v", err)
	}
	if format != "json" || output != "todos.json" {
		t.Fatalf("expected aliases to set format and output, got %q %q", format, output)
	}
	if !cmd.Flags().Changed("format") {
		t.Fatal("expected format flag to be marked as changed")
	}

	usage := cmd.Flags().FlagUsages()
	if strings.Contains(usage, "--fmt") {
		t.Fatalf("did not expect alias to appear in usage, got %q", usage)
	}
	if !strings.Contains(usage, "-o, --output") {
		t.Fatalf("expected shorthand to appear inline, got %q", usage)
	}
}

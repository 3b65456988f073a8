// Package listflags holds flags shared by commands that list todos.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds -a/--all, which includes finished todos.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().BoolP("all", "a", false, "Include finished todos")
		return
	}

	cmd.Flags().BoolVarP(target, "all", "a", false, "Include finished todos")
}

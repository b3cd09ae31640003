package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for instantreview.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instantreview",
		Short: "Automation report generator for the instant review workflow",
		Long: `Instantreview generates structured automation reports for the instant
review workflow. Each run validates prerequisites, executes the automation
step pipeline for an issue, and produces a report describing the outcome.

Reports are saved to a local history database so past runs can be listed
and reprinted with the history command.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

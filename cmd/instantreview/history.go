package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"instantreview/internal/config"
	"instantreview/internal/database"
	"instantreview/internal/model"
	"instantreview/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [issue-number]",
		Short: "Show past automation runs recorded in the history database",
		Long: `History lists the automation runs previously recorded for an issue,
or the set of issues that have recorded runs.

Examples:
  # List all issues with recorded runs
  instantreview history --list-issues

  # Show the run history for issue 5
  instantreview history 5

  # Print the stored report for a specific run
  instantreview history --id 12

  # Print the latest stored report for issue 5 as JSON
  instantreview history --json 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-issues", "L", false,
		"List all issues with recorded runs")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the stored report for the run with this database ID")
	cmd.Flags().BoolP("json", "j", false,
		"Print the latest stored report for the issue as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	listIssues, err := cmd.Flags().GetBool("list-issues")
	if err != nil {
		return err
	}
	if listIssues {
		issues, err := db.ListIssues(ctx)
		if err != nil {
			return fmt.Errorf("failed to list issues: %w", err)
		}
		if len(issues) == 0 {
			fmt.Fprintln(out, "No recorded runs found.")
			return nil
		}
		fmt.Fprintln(out, "Issues with recorded runs:")
		for _, issue := range issues {
			fmt.Fprintf(out, "  #%d\n", issue)
		}
		return nil
	}

	runID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	if runID > 0 {
		rep, err := db.GetReportByID(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", runID, err)
		}
		if rep == nil {
			return fmt.Errorf("no run found with ID %d", runID)
		}
		writer := report.NewJSONWriter(out, report.WithPrettyPrint())
		_, err = writer.Write(rep)
		return err
	}

	if len(args) == 0 {
		return fmt.Errorf("an issue number, --list-issues, or --id is required")
	}

	issue, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid issue number %q: %w", args[0], err)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput {
		rep, err := db.GetLatestReport(ctx, issue)
		if err != nil {
			return fmt.Errorf("failed to load latest run for issue %d: %w", issue, err)
		}
		if rep == nil {
			return fmt.Errorf("no recorded runs for issue %d", issue)
		}
		writer := report.NewJSONWriter(out, report.WithPrettyPrint())
		_, err = writer.Write(rep)
		return err
	}

	records, err := db.GetRunHistory(ctx, issue)
	if err != nil {
		return fmt.Errorf("failed to load run history for issue %d: %w", issue, err)
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "No recorded runs for issue #%d.\n", issue)
		return nil
	}

	fmt.Fprintf(out, "Run history for issue #%d:\n\n", issue)
	for _, rec := range records {
		status := color.GreenString(rec.Status)
		if rec.Status != model.StatusSuccess {
			status = color.RedString(rec.Status)
		}
		fmt.Fprintf(out, "  [%d] %s  %s  steps=%d  run=%s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			status,
			rec.StepsCompleted,
			rec.RunID,
		)
	}
	return nil
}

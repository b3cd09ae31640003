package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"instantreview/internal/config"
	"instantreview/internal/database"
	"instantreview/internal/log"
	"instantreview/internal/model"
	"instantreview/internal/report"
	"instantreview/internal/review"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [issue-number...]",
		Short: "Generate automation reports for one or more issues",
		Long: `Run validates the automation prerequisites, executes the step pipeline
for each issue, and prints the resulting automation report as JSON.

Step failures never abort the command: they are captured inside the report
as an error-shaped implementation record, and the command still exits 0.

Examples:
  # Generate the JSON report for the default issue
  instantreview run

  # Generate a report for issue 42
  instantreview run 42

  # Generate reports for several issues concurrently
  instantreview run 1 2 3

  # Print a human-readable summary instead of JSON
  instantreview run --summary 5

  # Write the Markdown report to a file
  instantreview run --markdown -o report.md 5

  # Use a custom configuration file
  instantreview run -c myconfig.yaml 5`,
		Args: cobra.ArbitraryArgs,
		RunE: runRunCmd,
	}

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent report runs")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .instantreview in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("summary", "s", false,
		"Output a human-readable summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --summary)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not record the run in the history database")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), "instantreview", cfg.Verbose)
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runReports(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and arguments.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	issues, err := parseIssueArgs(args)
	if err != nil {
		return nil, err
	}
	cfg.Issues = issues

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-issue configurations from the config file.
	// An explicitly specified path must exist; an implicit search may
	// come up empty without error.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.IssueConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.IssueConfigs = &config.File{
			Issues: make(map[string]config.IssueConfig),
		}
	}

	cfg.SummaryReport, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// parseIssueArgs converts positional arguments into issue numbers.
// With no arguments the default issue is used, so a bare invocation still
// produces a full report.
func parseIssueArgs(args []string) ([]int, error) {
	if len(args) == 0 {
		return []int{config.DefaultIssueNumber}, nil
	}

	issues := make([]int, 0, len(args))
	for _, arg := range args {
		issue, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid issue number %q: %w", arg, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(w io.Writer, name string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return log.NewLogger(w, name, level)
}

// newGenerator creates a generator for the given issue with per-issue
// configuration overrides applied.
func newGenerator(cfg *config.Config, issue int, verbose bool, logWriter io.Writer) *review.Generator {
	issueLogger := setupLogger(logWriter,
		fmt.Sprintf("%s_%d", config.LoggerNamePrefix, issue), verbose)

	opts := []review.GeneratorOption{
		review.WithLogger(issueLogger),
	}

	issueCfg := cfg.IssueConfigs.GetIssueConfig(issue)
	if issueCfg.AutomationType != "" {
		opts = append(opts, review.WithAutomationType(issueCfg.AutomationType))
	}

	perf := model.DefaultExpectedPerformance()
	if issueCfg.ResolutionTime != "" {
		perf.ResolutionTime = issueCfg.ResolutionTime
	}
	if issueCfg.AutomationLevel != "" {
		perf.AutomationLevel = issueCfg.AutomationLevel
	}
	if issueCfg.QualityAssurance != "" {
		perf.QualityAssurance = issueCfg.QualityAssurance
	}
	opts = append(opts, review.WithExpectedPerformance(perf))

	return review.NewGenerator(issue, opts...)
}

// runReports drives report generation for all configured issues.
func runReports(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	out := cmd.OutOrStdout()

	printBanner(out)

	// Open the history database unless persistence is disabled
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	// The output file is opened once per invocation and truncated, so a
	// rerun replaces the previous report instead of corrupting it. Reports
	// generated within this invocation share the handle.
	var fileOutput io.Writer
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		fileOutput = f
	}
	writer := newReportWriter(cfg, out, fileOutput)

	if len(cfg.Issues) > 1 && cfg.BatchSize > 1 {
		return runBatch(ctx, cmd, cfg, db, writer, logger)
	}
	return runSequential(ctx, cmd, cfg, db, writer, logger)
}

// runSequential generates reports one issue at a time.
func runSequential(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.RunDB, writer report.Writer, logger *slog.Logger) error {
	out := cmd.OutOrStdout()

	for _, issue := range cfg.Issues {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		gen := newGenerator(cfg, issue, cfg.Verbose, cmd.ErrOrStderr())
		rep := gen.Report(ctx)

		if err := outputReport(out, writer, rep); err != nil {
			return fmt.Errorf("failed to write report for issue %d: %w", issue, err)
		}

		if err := saveReport(ctx, db, rep, logger); err != nil {
			logger.Error("failed to save run", "issue", issue, "error", err)
		}
	}

	printCompletion(out)
	return nil
}

// runBatch generates reports for multiple issues concurrently.
func runBatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.RunDB, writer report.Writer, logger *slog.Logger) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Generating %d reports (concurrency: %d)...\n\n",
		len(cfg.Issues), cfg.BatchSize)

	bp := review.NewBatchProcessor(
		func(issue int) *review.Generator {
			return newGenerator(cfg, issue, cfg.Verbose, cmd.ErrOrStderr())
		},
		review.WithConcurrency(cfg.BatchSize),
		review.WithBatchLogger(logger),
	)

	// The callback is serialized by the batch processor, so writing to
	// shared destinations here is safe.
	_, err := bp.ProcessWithCallback(ctx, cfg.Issues, func(rep *model.Report, index int) {
		fmt.Fprintf(out, "[%d/%d] Report generated for issue #%d\n",
			index+1, len(cfg.Issues), rep.IssueNumber)

		if err := outputReport(out, writer, rep); err != nil {
			logger.Error("failed to write report", "issue", rep.IssueNumber, "error", err)
		}
		if err := saveReport(ctx, db, rep, logger); err != nil {
			logger.Error("failed to save run", "issue", rep.IssueNumber, "error", err)
		}
	})
	if err != nil {
		return err
	}

	printCompletion(out)
	return nil
}

// createReportFile opens the report output file, creating parent
// directories as needed. An existing file is truncated.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// 0600: reports are per-user artifacts
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// newReportWriter builds the report writer for the invocation. The JSON
// envelope is the default format; --summary and --markdown override it.
// When a file destination is set, the formatted report goes to the file
// and a condensed summary is echoed to the terminal.
func newReportWriter(cfg *config.Config, out, fileOutput io.Writer) report.Writer {
	dest := out
	if fileOutput != nil {
		dest = fileOutput
	}

	var writer report.Writer
	switch {
	case cfg.SummaryReport:
		writer = report.NewSimpleWriter(dest, report.WithVerbose(cfg.Verbose))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(dest)
	default:
		writer = report.NewJSONWriter(dest, report.WithPrettyPrint())
	}

	if fileOutput != nil {
		writer = report.NewMultiWriter(writer,
			report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose)))
	}
	return writer
}

// outputReport writes one report through the invocation's writer.
func outputReport(out io.Writer, writer report.Writer, rep *model.Report) error {
	fmt.Fprintln(out, "\n📊 Automation Report:")
	_, err := writer.Write(rep)
	return err
}

// saveReport persists the report to the history database.
// A nil database makes this a no-op.
func saveReport(ctx context.Context, db *database.RunDB, rep *model.Report, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	runID, err := db.SaveReport(ctx, rep)
	if err != nil {
		return err
	}

	logger.Info("run saved to history",
		"issue", rep.IssueNumber,
		"run_id", runID,
	)
	return nil
}

// printBanner prints the run banner.
func printBanner(out io.Writer) {
	title := color.New(color.FgCyan, color.Bold)
	_, _ = title.Fprintln(out, "🚀 Instant Review Automation")
	fmt.Fprintln(out, strings.Repeat("=", 60))
}

// printCompletion prints the completion message.
func printCompletion(out io.Writer) {
	fmt.Fprintln(out)
	_, _ = color.New(color.FgGreen).Fprintln(out, "✅ Implementation completed successfully!")
	fmt.Fprintln(out, "🔄 Ready for instant review and merge automation")
}

package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultIssueNumber is the issue processed when no arguments are given.
	// Issue 5 is the canonical smoke-test issue for the instant review
	// integration; running the binary bare reproduces that run.
	DefaultIssueNumber = 5

	// DefaultBatchSize is the number of concurrent report runs when several
	// issues are requested. Report generation is cheap, so the limit mainly
	// keeps log output and database writes orderly.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "instantreview"

	// LoggerNamePrefix is the component-name prefix for per-issue loggers.
	// The full name is "<prefix>_<issue>", e.g. "automation_issue_5".
	LoggerNamePrefix = "automation_issue"
)

// Config holds all options for a run of the CLI.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// Issues is the list of issue numbers to generate reports for.
	Issues []int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent runs when processing
	// multiple issues.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .instantreview in the current
	// directory, the XDG config directory, and the user's home directory.
	ConfigFilePath string

	// IssueConfigs holds per-issue overrides loaded from the config file.
	IssueConfigs *File

	// SummaryReport enables the human-readable summary instead of the
	// default JSON report. Mutually exclusive with MarkdownReport.
	SummaryReport bool

	// MarkdownReport enables Markdown report output instead of the
	// default JSON report. Mutually exclusive with SummaryReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// SaveToDB controls whether run results are persisted to the
	// run-history database.
	SaveToDB bool

	// DBDir is the directory holding the run-history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig returns a Config populated with default values.
//
// Design decision: We provide an explicit constructor instead of relying on
// zero values because several defaults are non-zero, and the constructor
// doubles as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		SaveToDB:  true,
	}
}

// Validate checks the configuration for consistency.
// It returns the first sentinel error found; fixing one error often makes
// the rest irrelevant.
func (c *Config) Validate() error {
	if len(c.Issues) == 0 {
		return ErrNoIssues
	}

	for _, issue := range c.Issues {
		if issue <= 0 {
			return ErrInvalidIssueNumber
		}
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.SummaryReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// XDGDataDir returns the XDG data directory for instantreview.
// On Linux: ~/.local/share/instantreview
// On macOS: ~/Library/Application Support/instantreview
// On Windows: %LOCALAPPDATA%\instantreview
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for instantreview.
// On Linux: ~/.config/instantreview
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

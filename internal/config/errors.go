package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic handling while still providing human-readable messages.
var (
	// ErrNoIssues is returned when no issue number is specified or defaulted.
	ErrNoIssues = errors.New("no issues specified: provide one or more issue numbers")

	// ErrInvalidIssueNumber is returned when an issue number is not positive.
	ErrInvalidIssueNumber = errors.New("invalid issue number: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no runs execute at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --summary and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --summary and --markdown cannot be used together")
)

package model

import (
	"encoding/json"
	"time"
)

// Implementation statuses.
const (
	// StatusSuccess marks a run in which every step completed.
	StatusSuccess = "success"

	// StatusError marks a run aborted by a step failure.
	StatusError = "error"
)

// DefaultAutomationType is the automation type recorded in reports unless
// overridden by configuration.
const DefaultAutomationType = "enhanced_instant_review"

// ExpectedPerformance holds the constant performance expectations advertised
// in every report.
type ExpectedPerformance struct {
	// ResolutionTime is the expected end-to-end resolution time.
	ResolutionTime string `json:"resolution_time"`

	// AutomationLevel is the fraction of the workflow that is automated.
	AutomationLevel string `json:"automation_level"`

	// QualityAssurance names the review mechanism backing the result.
	QualityAssurance string `json:"quality_assurance"`
}

// DefaultExpectedPerformance returns the baseline performance expectations.
func DefaultExpectedPerformance() ExpectedPerformance {
	return ExpectedPerformance{
		ResolutionTime:   "<3_minutes",
		AutomationLevel:  "100%",
		QualityAssurance: "claude_reviewed",
	}
}

// Implementation is the outcome of running the pipeline steps.
// It has two serialized shapes selected by Status:
//
//	success: status, issue_number, execution_time_seconds, timestamp,
//	         steps_completed, results
//	error:   status, issue_number, error_message, timestamp
//
// Design decision: The two shapes share one Go type with custom JSON
// marshaling rather than two types, because callers always handle them
// together and the status field already discriminates.
type Implementation struct {
	// Status is StatusSuccess or StatusError.
	Status string

	// IssueNumber is the issue this run resolved.
	IssueNumber int

	// ExecutionTimeSeconds is the measured wall-clock duration of the steps.
	ExecutionTimeSeconds float64

	// Timestamp is the run context timestamp.
	Timestamp time.Time

	// StepsCompleted is the number of steps that recorded a result.
	StepsCompleted int

	// Results holds the per-step outcomes. Nil in the error shape.
	Results *StepResults

	// ErrorMessage carries the step failure text in the error shape.
	ErrorMessage string
}

// NewImplementation builds the success-shaped implementation record from a
// completed run.
func NewImplementation(run *Run, elapsed time.Duration) Implementation {
	return Implementation{
		Status:               StatusSuccess,
		IssueNumber:          run.Context.IssueNumber,
		ExecutionTimeSeconds: elapsed.Seconds(),
		Timestamp:            run.Context.Timestamp,
		StepsCompleted:       run.Results.CompletedCount(),
		Results:              &run.Results,
	}
}

// NewErrorImplementation builds the error-shaped implementation record.
func NewErrorImplementation(rc RunContext, err error) Implementation {
	return Implementation{
		Status:       StatusError,
		IssueNumber:  rc.IssueNumber,
		Timestamp:    rc.Timestamp,
		ErrorMessage: err.Error(),
	}
}

// implementationJSON is the serialized form of Implementation.
// Pointer fields with omitempty produce the two documented shapes.
type implementationJSON struct {
	Status               string       `json:"status"`
	IssueNumber          int          `json:"issue_number"`
	ExecutionTimeSeconds *float64     `json:"execution_time_seconds,omitempty"`
	Timestamp            time.Time    `json:"timestamp"`
	StepsCompleted       *int         `json:"steps_completed,omitempty"`
	Results              *StepResults `json:"results,omitempty"`
	ErrorMessage         string       `json:"error_message,omitempty"`
}

// MarshalJSON serializes the implementation in its status-dependent shape.
func (im Implementation) MarshalJSON() ([]byte, error) {
	out := implementationJSON{
		Status:      im.Status,
		IssueNumber: im.IssueNumber,
		Timestamp:   im.Timestamp,
	}
	if im.Status == StatusError {
		out.ErrorMessage = im.ErrorMessage
		return json.Marshal(out)
	}
	out.ExecutionTimeSeconds = &im.ExecutionTimeSeconds
	out.StepsCompleted = &im.StepsCompleted
	out.Results = im.Results
	return json.Marshal(out)
}

// UnmarshalJSON restores an implementation from either serialized shape.
func (im *Implementation) UnmarshalJSON(data []byte) error {
	var in implementationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	im.Status = in.Status
	im.IssueNumber = in.IssueNumber
	im.Timestamp = in.Timestamp
	im.ErrorMessage = in.ErrorMessage
	if in.ExecutionTimeSeconds != nil {
		im.ExecutionTimeSeconds = *in.ExecutionTimeSeconds
	}
	if in.StepsCompleted != nil {
		im.StepsCompleted = *in.StepsCompleted
	}
	im.Results = in.Results
	return nil
}

// Report is the full automation report. It aggregates the run context, the
// prerequisite checks, and the implementation record with its per-step
// results. A report is produced once per run, serialized, then discarded;
// persistence happens only through the run-history database.
type Report struct {
	// IssueNumber is the issue this report covers.
	IssueNumber int `json:"issue_number"`

	// ReportTimestamp is the run context timestamp.
	ReportTimestamp time.Time `json:"report_timestamp"`

	// Prerequisites holds the prerequisite validation outcome.
	Prerequisites PrerequisiteResult `json:"prerequisites"`

	// Implementation holds the pipeline execution outcome.
	Implementation Implementation `json:"implementation"`

	// AutomationType labels the automation flavor that produced the report.
	AutomationType string `json:"automation_type"`

	// ExpectedPerformance holds the advertised performance expectations.
	ExpectedPerformance ExpectedPerformance `json:"expected_performance"`
}

// ReportEnvelope wraps a report under the claude_automation_report key.
// The envelope is the exact serialized surface consumers depend on.
type ReportEnvelope struct {
	// Report is the wrapped automation report.
	Report *Report `json:"claude_automation_report"`
}

// NewReport assembles a report from the prerequisite and implementation
// outcomes with the default automation type and performance expectations.
func NewReport(rc RunContext, prereq PrerequisiteResult, impl Implementation) *Report {
	return &Report{
		IssueNumber:         rc.IssueNumber,
		ReportTimestamp:     rc.Timestamp,
		Prerequisites:       prereq,
		Implementation:      impl,
		AutomationType:      DefaultAutomationType,
		ExpectedPerformance: DefaultExpectedPerformance(),
	}
}

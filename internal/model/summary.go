package model

import (
	"time"

	"github.com/samber/lo"
)

// Summary is a condensed, presentation-oriented view of a report.
// It is the input for the human-readable and markdown writers, keeping
// presentation concerns out of the Report itself.
type Summary struct {
	// IssueNumber is the issue this report covers.
	IssueNumber int `json:"issue_number"`

	// GeneratedAt is the report timestamp.
	GeneratedAt time.Time `json:"generated_at"`

	// Status is the implementation status ("success" or "error").
	Status string `json:"status"`

	// AutomationType labels the automation flavor.
	AutomationType string `json:"automation_type"`

	// PrerequisitesPassed is the number of prerequisite checks that passed.
	PrerequisitesPassed int `json:"prerequisites_passed"`

	// PrerequisitesTotal is the number of prerequisite checks evaluated.
	PrerequisitesTotal int `json:"prerequisites_total"`

	// StepsCompleted is the number of pipeline steps that completed.
	StepsCompleted int `json:"steps_completed"`

	// StepLines describes each executed step for display.
	StepLines []StepLine `json:"steps,omitempty"`

	// ExecutionSeconds is the measured step execution time.
	ExecutionSeconds float64 `json:"execution_seconds"`

	// Error carries the failure text when the run did not succeed.
	Error string `json:"error,omitempty"`
}

// StepLine is one display row of the summary's step listing.
type StepLine struct {
	// Ordinal is the 1-based step position.
	Ordinal int `json:"ordinal"`

	// Name is the step name.
	Name string `json:"name"`

	// Status is the recorded step status.
	Status string `json:"status"`

	// Detail is a short human-readable description of the step outcome.
	Detail string `json:"detail,omitempty"`
}

// NewSummary condenses a report for display.
func NewSummary(report *Report) *Summary {
	s := &Summary{
		IssueNumber:      report.IssueNumber,
		GeneratedAt:      report.ReportTimestamp,
		Status:           report.Implementation.Status,
		AutomationType:   report.AutomationType,
		StepsCompleted:   report.Implementation.StepsCompleted,
		ExecutionSeconds: report.Implementation.ExecutionTimeSeconds,
		Error:            report.Implementation.ErrorMessage,
	}

	if checks := report.Prerequisites.Checks; checks != nil {
		passed := []bool{
			checks.RuntimeVersion,
			checks.LoggingConfigured,
			checks.TimestampValid,
			checks.IssueNumberValid,
		}
		s.PrerequisitesTotal = len(passed)
		s.PrerequisitesPassed = lo.CountBy(passed, func(ok bool) bool { return ok })
	} else if report.Prerequisites.Message != "" && s.Error == "" {
		s.Error = report.Prerequisites.Message
	}

	if report.Implementation.Results != nil {
		s.StepLines = collectStepLines(report.Implementation.Results)
	}

	return s
}

// collectStepLines builds display rows for each recorded step result.
func collectStepLines(results *StepResults) []StepLine {
	lines := make([]StepLine, 0, 4)

	if r := results.Detection; r != nil {
		lines = append(lines, StepLine{
			Ordinal: 1,
			Name:    "detect implementation type",
			Status:  r.Status,
			Detail:  r.Type + " (" + r.Confidence + " via " + r.Method + ")",
		})
	}
	if r := results.Solution; r != nil {
		lines = append(lines, StepLine{
			Ordinal: 2,
			Name:    "generate code solution",
			Status:  r.Status,
			Detail:  r.Solution + ", " + r.Quality + ", coverage " + r.TestCoverage,
		})
	}
	if r := results.Security; r != nil {
		lines = append(lines, StepLine{
			Ordinal: 3,
			Name:    "validate security checks",
			Status:  r.Status,
			Detail:  "score " + r.SecurityScore + ", vulnerabilities " + r.Vulnerabilities,
		})
	}
	if r := results.ReviewData; r != nil {
		detail := "not ready for review"
		if r.ReviewReady {
			detail = "ready for review"
		}
		lines = append(lines, StepLine{
			Ordinal: 4,
			Name:    "prepare review data",
			Status:  r.Status,
			Detail:  detail + ", tests " + r.TestStatus,
		})
	}

	return lines
}

// Succeeded reports whether the run completed without error.
func (s *Summary) Succeeded() bool {
	return s.Status == StatusSuccess
}

// AllStepsCompleted reports whether every listed step recorded the
// completed status.
func (s *Summary) AllStepsCompleted() bool {
	if len(s.StepLines) == 0 {
		return false
	}
	return lo.EveryBy(s.StepLines, func(line StepLine) bool {
		return line.Status == StepStatusCompleted
	})
}

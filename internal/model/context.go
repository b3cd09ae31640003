package model

import "time"

// RunContext is the immutable per-run context created at startup.
// It identifies the issue being processed and the time the run began.
// It is created once, read-only thereafter, and discarded at process exit.
type RunContext struct {
	// IssueNumber is the tracker issue this run resolves.
	IssueNumber int

	// Timestamp is when the run context was created.
	// It is reused as the report timestamp so the prerequisite check,
	// the implementation record, and the report header all agree.
	Timestamp time.Time
}

// NewRunContext creates a run context for the given issue at time now.
func NewRunContext(issueNumber int, now time.Time) RunContext {
	return RunContext{
		IssueNumber: issueNumber,
		Timestamp:   now,
	}
}

// Run accumulates the outcome of a single pipeline execution.
// Steps write their typed results into Results; the pipeline appends each
// executed step name to PerformedSteps in order.
type Run struct {
	// Context is the immutable run context.
	Context RunContext

	// Results holds the typed outcome of each executed step.
	Results StepResults

	// PerformedSteps lists executed step names in execution order.
	PerformedSteps []string
}

// NewRun creates an empty run for the given context.
func NewRun(rc RunContext) *Run {
	return &Run{Context: rc}
}

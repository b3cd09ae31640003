package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"instantreview/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// run from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., ordering, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the run to modify.
	// Returning an error aborts the run; the caller converts it into an
	// error-shaped implementation record rather than letting it escape.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to keep executing steps after
// one fails. The default is to stop on the first error because later steps
// build on the output of earlier ones (review data is meaningless without a
// generated solution).
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Default creates a pipeline wired with the four production steps in their
// fixed order: detection, solution, security, review data.
func Default(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewDetectStep(),
		NewSolutionStep(),
		NewSecurityStep(),
		NewReviewDataStep(),
	)
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because the steps themselves are fast and non-blocking. This
// still gives callers a cancellation point between stages.
//
// Returns the first error encountered if continueOnError is false, or nil
// if all steps complete.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	var firstErr error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"issue", run.Context.IssueNumber,
		)

		err := step.Do(ctx, run)

		// The step ran either way; record it before deciding what the
		// error means for the rest of the pipeline.
		run.PerformedSteps = append(run.PerformedSteps, step.Name())

		if err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"issue", run.Context.IssueNumber,
				"error", err,
			)

			wrapped := fmt.Errorf("step %s: %w", step.Name(), err)
			if !p.continueOnError {
				return wrapped
			}
			if firstErr == nil {
				firstErr = wrapped
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"issue", run.Context.IssueNumber,
			)
		}
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

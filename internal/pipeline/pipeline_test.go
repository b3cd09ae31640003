package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"instantreview/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *model.Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *model.Run) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// testRun returns an empty run for a fixed issue.
func testRun() *model.Run {
	return model.NewRun(model.RunContext{IssueNumber: 5})
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineDefault tests the production pipeline wiring.
func TestPipelineDefault(t *testing.T) {
	t.Parallel()

	p := Default()

	if p.StepCount() != 4 {
		t.Fatalf("expected 4 steps, got %d", p.StepCount())
	}

	expected := []string{
		StepNameDetect,
		StepNameSolution,
		StepNameSecurity,
		StepNameReviewData,
	}
	names := p.StepNames()
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
		}
	}
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "test-step"})

		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("adds multiple steps with AddSteps", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(
			&mockStep{name: "step-1"},
			&mockStep{name: "step-2"},
			&mockStep{name: "step-3"},
		)

		if p.StepCount() != 3 {
			t.Errorf("expected 3 steps, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddStep(&mockStep{name: "second"})
		p.AddStep(&mockStep{name: "third"})

		expected := []string{"first", "second", "third"}
		for i, name := range p.StepNames() {
			if name != expected[i] {
				t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
			}
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)

		p := New()
		p.AddStep(&mockStep{
			name: "step-1",
			doFunc: func(_ context.Context, _ *model.Run) error {
				executionOrder = append(executionOrder, "step-1")
				return nil
			},
		})
		p.AddStep(&mockStep{
			name: "step-2",
			doFunc: func(_ context.Context, _ *model.Run) error {
				executionOrder = append(executionOrder, "step-2")
				return nil
			},
		})

		run := testRun()
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(executionOrder) != 2 {
			t.Fatalf("expected 2 executed steps, got %d", len(executionOrder))
		}
		if executionOrder[0] != "step-1" || executionOrder[1] != "step-2" {
			t.Errorf("unexpected execution order: %v", executionOrder)
		}
	})

	t.Run("records performed step names on the run", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"})

		run := testRun()
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(run.PerformedSteps) != 2 {
			t.Fatalf("expected 2 performed steps, got %d", len(run.PerformedSteps))
		}
		if run.PerformedSteps[0] != "a" || run.PerformedSteps[1] != "b" {
			t.Errorf("unexpected performed steps: %v", run.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("solution generation failed")
		later := &mockStep{name: "later"}

		p := New()
		p.AddStep(&mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.Run) error {
				return stepErr
			},
		})
		p.AddStep(later)

		err := p.Execute(context.Background(), testRun())

		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, stepErr) {
			t.Errorf("expected wrapped step error, got %v", err)
		}
		if !strings.Contains(err.Error(), "step failing:") {
			t.Errorf("expected step name in error, got %v", err)
		}
		if later.callCount != 0 {
			t.Errorf("expected later step not to run, ran %d times", later.callCount)
		}
	})

	t.Run("records a failed step regardless of error mode", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.Run) error {
				return errors.New("boom")
			},
		}

		for _, continueOnError := range []bool{false, true} {
			run := testRun()
			p := New(WithContinueOnError(continueOnError))
			p.AddStep(failing)

			if err := p.Execute(context.Background(), run); err == nil {
				t.Fatal("expected error")
			}
			if len(run.PerformedSteps) != 1 || run.PerformedSteps[0] != "failing" {
				t.Errorf("continueOnError=%v: expected failed step to be recorded, got %v",
					continueOnError, run.PerformedSteps)
			}
		}
	})

	t.Run("continues after error with WithContinueOnError", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("boom")
		later := &mockStep{name: "later"}

		p := New(WithContinueOnError(true))
		p.AddStep(&mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.Run) error {
				return stepErr
			},
		})
		p.AddStep(later)

		err := p.Execute(context.Background(), testRun())

		if !errors.Is(err, stepErr) {
			t.Errorf("expected first error to be returned, got %v", err)
		}
		if later.callCount != 1 {
			t.Errorf("expected later step to run once, ran %d times", later.callCount)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never-runs"}

		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Execute(ctx, testRun())

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Errorf("expected step not to run, ran %d times", step.callCount)
		}
	})

	t.Run("empty pipeline succeeds", func(t *testing.T) {
		t.Parallel()

		if err := New().Execute(context.Background(), testRun()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

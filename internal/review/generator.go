package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	"instantreview/internal/model"
	"instantreview/internal/pipeline"
)

// minRuntimeMajor and minRuntimeMinor form the minimum Go runtime version
// required by the prerequisite check. Go 1.21 is the floor because the
// logging layer depends on log/slog, which first shipped in that release.
const (
	minRuntimeMajor = 1
	minRuntimeMinor = 21
)

// Generator produces the automation report for a single issue.
// It is a thin orchestrator: it validates prerequisites, drives the step
// pipeline, measures elapsed time, and assembles the serialized report.
//
// A Generator is created once per run and must not be mutated afterwards.
type Generator struct {
	// rc is the immutable run context.
	rc model.RunContext

	// logger receives progress and failure records.
	logger *slog.Logger

	// pipe executes the automation steps.
	pipe *pipeline.Pipeline

	// now supplies the clock, injectable for deterministic tests.
	now func() time.Time

	// automationType labels reports; defaults to model.DefaultAutomationType.
	automationType string

	// performance holds the advertised expectations for reports.
	performance model.ExpectedPerformance
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger injected into the generator and its pipeline.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithPipeline replaces the default step pipeline.
// Tests use this to inject failing steps.
func WithPipeline(p *pipeline.Pipeline) GeneratorOption {
	return func(g *Generator) {
		g.pipe = p
	}
}

// WithClock sets the time source used for the run timestamp and the
// execution time measurement.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithAutomationType overrides the automation type label in the report.
func WithAutomationType(automationType string) GeneratorOption {
	return func(g *Generator) {
		if automationType != "" {
			g.automationType = automationType
		}
	}
}

// WithExpectedPerformance overrides the advertised performance expectations.
func WithExpectedPerformance(perf model.ExpectedPerformance) GeneratorOption {
	return func(g *Generator) {
		g.performance = perf
	}
}

// NewGenerator creates a generator for the given issue number.
func NewGenerator(issueNumber int, opts ...GeneratorOption) *Generator {
	g := &Generator{
		now:            time.Now,
		automationType: model.DefaultAutomationType,
		performance:    model.DefaultExpectedPerformance(),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.rc = model.NewRunContext(issueNumber, g.now())

	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.pipe == nil {
		g.pipe = pipeline.Default(pipeline.WithLogger(g.logger))
	}

	return g
}

// Context returns the immutable run context.
func (g *Generator) Context() model.RunContext {
	return g.rc
}

// ValidatePrerequisites checks the four static conditions required before
// the pipeline may run. It never returns an error: an internal fault is
// converted into the error-flagged result.
func (g *Generator) ValidatePrerequisites() model.PrerequisiteResult {
	ok, err := runtimeAtLeast(runtime.Version(), minRuntimeMajor, minRuntimeMinor)
	if err != nil {
		g.logger.Error("prerequisites validation failed", "error", err)
		return model.PrerequisiteResult{Message: err.Error()}
	}

	checks := model.Prerequisites{
		RuntimeVersion:    ok,
		LoggingConfigured: g.logger != nil,
		TimestampValid:    !g.rc.Timestamp.IsZero(),
		IssueNumberValid:  g.rc.IssueNumber > 0,
	}

	g.logger.Info("prerequisites validated",
		"runtime_version", checks.RuntimeVersion,
		"logging_configured", checks.LoggingConfigured,
		"timestamp_valid", checks.TimestampValid,
		"issue_number_valid", checks.IssueNumberValid,
	)

	return model.PrerequisiteResult{Checks: &checks}
}

// RunSteps executes the pipeline and returns the implementation record.
// A step failure is captured as the error-shaped record; it does not
// propagate as an error.
func (g *Generator) RunSteps(ctx context.Context) model.Implementation {
	g.logger.Info("starting automation run", "issue", g.rc.IssueNumber)

	start := g.now()
	run := model.NewRun(g.rc)

	if err := g.pipe.Execute(ctx, run); err != nil {
		g.logger.Error("automation run failed",
			"issue", g.rc.IssueNumber,
			"error", err,
		)
		return model.NewErrorImplementation(g.rc, err)
	}

	elapsed := g.now().Sub(start)
	impl := model.NewImplementation(run, elapsed)

	g.logger.Info("automation run completed",
		"issue", g.rc.IssueNumber,
		"steps_completed", impl.StepsCompleted,
		"step_statuses", strings.Join(impl.Results.Statuses(), ","),
		"execution_seconds", impl.ExecutionTimeSeconds,
	)

	return impl
}

// Report runs prerequisite validation and the pipeline, then assembles the
// full report structure.
func (g *Generator) Report(ctx context.Context) *model.Report {
	prereq := g.ValidatePrerequisites()
	impl := g.RunSteps(ctx)

	report := model.NewReport(g.rc, prereq, impl)
	report.AutomationType = g.automationType
	report.ExpectedPerformance = g.performance
	return report
}

// GenerateReport produces the serialized report with two-space indentation.
// If serialization fails, it returns a single-key error document instead;
// the method never returns an error.
func (g *Generator) GenerateReport(ctx context.Context) string {
	envelope := model.ReportEnvelope{Report: g.Report(ctx)}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		g.logger.Error("report serialization failed", "error", err)
		fallback, ferr := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
		if ferr != nil {
			// A map[string]string cannot fail to marshal; keep a literal
			// document as the absolute last resort.
			return `{"error": "report serialization failed"}`
		}
		return string(fallback)
	}
	return string(data)
}

// runtimeAtLeast reports whether a runtime.Version() string like "go1.23.4"
// satisfies the given major.minor floor. Development toolchains ("devel ...")
// are assumed to satisfy it.
func runtimeAtLeast(version string, major, minor int) (bool, error) {
	if strings.HasPrefix(version, "devel") {
		return true, nil
	}

	trimmed := strings.TrimPrefix(version, "go")
	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 {
		return false, fmt.Errorf("unrecognized runtime version %q", version)
	}

	gotMajor, err := strconv.Atoi(parts[0])
	if err != nil {
		return false, fmt.Errorf("unrecognized runtime version %q: %w", version, err)
	}
	gotMinor, err := strconv.Atoi(parts[1])
	if err != nil {
		return false, fmt.Errorf("unrecognized runtime version %q: %w", version, err)
	}

	if gotMajor != major {
		return gotMajor > major, nil
	}
	return gotMinor >= minor, nil
}

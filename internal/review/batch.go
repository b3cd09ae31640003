package review

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"instantreview/internal/model"
)

// BatchProcessor generates reports for multiple issues concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: Batch handling lives in a separate type rather than in
// Generator because a Generator is bound to a single immutable run context;
// the batch layer creates one fresh generator per issue.
type BatchProcessor struct {
	// factory creates a new generator for each issue.
	// A factory guarantees each report gets a fresh run context.
	factory func(issueNumber int) *Generator

	// concurrency is the maximum number of concurrent report runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// mu guards the callback invocations so output does not interleave.
	mu sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent report runs.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
// The factory is called once per issue to create a fresh generator.
func NewBatchProcessor(factory func(issueNumber int) *Generator, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Process generates reports for all issues and returns them in input order.
// The concurrency limit bounds how many runs execute simultaneously.
func (bp *BatchProcessor) Process(ctx context.Context, issues []int) ([]*model.Report, error) {
	return bp.ProcessWithCallback(ctx, issues, nil)
}

// ProcessWithCallback generates reports for all issues, invoking callback as
// each report completes. Callbacks are serialized so callers may write to a
// shared destination without their own locking. Reports are returned in
// input order regardless of completion order.
func (bp *BatchProcessor) ProcessWithCallback(ctx context.Context, issues []int, callback func(report *model.Report, index int)) ([]*model.Report, error) {
	bp.logger.Info("starting batch run",
		"total_issues", len(issues),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	reports := make([]*model.Report, len(issues))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, issue := range issues {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("generating report",
				"issue", issue,
				"index", i+1,
				"total", len(issues),
			)

			report := bp.factory(issue).Report(ctx)
			reports[i] = report

			if callback != nil {
				bp.mu.Lock()
				callback(report, i)
				bp.mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch run finished",
		"total_issues", len(issues),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	return reports, err
}

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/valaw/internal/model"
)

// BatchProcessor runs a group of independent steps concurrently.
// It is itself a Step, so a pipeline can run the domain steps side by side
// and then continue with the summary and history steps.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// With a limit of 1 the steps run one after another in the order given.
//
// A failing step never stops its siblings. Results keep domain order
// because RunReport.Results() sorts them.
type BatchProcessor struct {
	// steps are the steps to run.
	steps []Step

	// concurrency is the maximum number of steps running at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent steps.
// Default is 1 (sequential) if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor for steps.
func NewBatchProcessor(steps []Step, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		steps:       steps,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Name returns the step name.
func (bp *BatchProcessor) Name() string {
	return "domains"
}

// Do runs every step, at most concurrency at a time.
// Step errors are logged and swallowed; the only error returned is the
// context's when the run was cancelled.
func (bp *BatchProcessor) Do(ctx context.Context, report *model.RunReport) error {
	bp.logger.Debug("starting batch processing",
		"total_steps", len(bp.steps),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// errgroup's derived context is not used: one failing domain must not
	// cancel the others.
	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for _, step := range bp.steps {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := step.Do(ctx, report); err != nil {
				bp.logger.Error("step failed",
					"step", step.Name(),
					"error", err,
				)
				return nil
			}
			report.MarkStep(step.Name())
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	bp.logger.Debug("batch processing complete",
		"total_steps", len(bp.steps),
		"elapsed", time.Since(startTime),
	)

	if err := ctx.Err(); err != nil {
		report.MarkCancelled()
		return err
	}
	return nil
}

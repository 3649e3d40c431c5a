package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/offerscan/internal/model"
)

// DefaultConcurrency is the number of analyses run at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// AnalyzeFunc analyzes one seed URL.
// crawler.Spider.Analyze satisfies it; callers needing per-site settings
// build a spider per target inside the function.
type AnalyzeFunc func(ctx context.Context, target string) (*model.AnalysisResult, error)

// Outcome is the result of one target in a batch.
type Outcome struct {
	// Target is the seed URL as given.
	Target string

	// Result is the analysis, nil when Err rejected the target outright.
	// On cancellation it may hold the partial result.
	Result *model.AnalysisResult

	// Err is the analysis error, if any.
	Err error
}

// BatchProcessor handles concurrent analysis of multiple sites.
//
// Design decision: A failing target never cancels its siblings. Errors are
// recorded on the target's Outcome and the batch keeps going; only
// cancellation of the parent context stops it.
type BatchProcessor struct {
	// analyze runs a single analysis.
	analyze AnalyzeFunc

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

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

// WithConcurrency sets the maximum number of concurrent analyses.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor around analyze.
func NewBatchProcessor(analyze AnalyzeFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyze:     analyze,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes targets concurrently and returns one Outcome per
// target in input order. The error is ctx's error when ctx ended during
// the batch; targets that never started then carry it too.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(targets))
	done := make([]bool, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(o Outcome, index int) {
		// Each index is written by exactly one goroutine.
		outcomes[index] = o
		done[index] = true
	})

	for i := range outcomes {
		if !done[i] {
			outcomes[i] = Outcome{Target: targets[i], Err: ctx.Err()}
		}
	}
	return outcomes, err
}

// ProcessBatchWithCallback analyzes targets and calls callback for each
// finished target with its index in targets. The callback runs on the
// analysis goroutine, so it must be safe for concurrent use.
// It returns ctx's error when ctx ended during the batch.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(o Outcome, index int),
) error {
	bp.logger.Info("starting batch analysis",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bp.logger.Debug("analyzing target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			result, err := bp.analyze(gctx, target)
			if err != nil {
				bp.logger.Warn("analysis failed",
					"target", target,
					"error", err,
				)
			}
			callback(Outcome{Target: target, Result: result, Err: err}, i)

			// Per-target failures stay on the Outcome.
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch analysis complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)
	if err != nil {
		return err
	}
	return ctx.Err()
}

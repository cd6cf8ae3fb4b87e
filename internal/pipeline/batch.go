package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of samples processed at once.
const DefaultConcurrency = 10

// BatchProcessor runs a pipeline over many URLs concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a pipeline for each sample.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of samples in flight.
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

// WithConcurrency sets the maximum number of concurrent samples.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs the pipeline for every URL and returns one sample per
// URL in input order. Per-sample failures are recorded on the sample; the
// error is non-nil only when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*Sample, error) {
	samples := make([]*Sample, len(urls))
	err := bp.ProcessBatchWithCallback(ctx, urls, func(sample *Sample) {
		samples[sample.Index] = sample
	})

	// Unstarted samples after cancellation still get an entry.
	for i, s := range samples {
		if s == nil {
			samples[i] = NewSample(i, urls[i])
			samples[i].Err = ctx.Err()
		}
	}
	return samples, err
}

// ProcessBatchWithCallback runs the pipeline for every URL and calls
// callback with each completed sample. The callback is called from worker
// goroutines and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, urls []string, callback func(sample *Sample)) error {
	bp.logger.Debug("starting batch processing",
		"total", len(urls),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			sample := NewSample(i, u)
			if err := bp.pipelineFactory().Execute(gctx, sample); err != nil {
				bp.logger.Warn("sample failed", "url", u, "error", err)
			}
			callback(sample)

			// Sample errors stay on the sample so other URLs keep going.
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch processing complete",
		"total", len(urls),
		"elapsed", time.Since(start),
	)
	return err
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nao1215/malurl/internal/bayes"
	"github.com/nao1215/malurl/internal/feature"
	"github.com/nao1215/malurl/internal/model"
)

// Trained is the frozen result of one training run.
type Trained struct {
	// Model is the fitted classifier.
	Model *bayes.Model

	// Vocabulary is the token vocabulary the model was fitted with.
	Vocabulary *feature.Vocabulary

	// Rows is the number of training rows.
	Rows int

	// FetchFailures counts training rows whose content was unavailable.
	FetchFailures int
}

// Engine trains and applies the classifier, gathering page content for
// every URL through the batch processor.
type Engine struct {
	fetcher     Fetcher
	concurrency int
	skipContent bool
	progress    func(done, total int)
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineConcurrency sets how many URLs are fetched at once.
func WithEngineConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithSkipContent disables page fetching; every row gets an all-zero
// content vector.
func WithSkipContent(skip bool) EngineOption {
	return func(e *Engine) {
		e.skipContent = skip
	}
}

// WithProgress registers a callback invoked after each URL's content is ready.
// It may be called from several goroutines.
func WithProgress(fn func(done, total int)) EngineOption {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine that fetches content with fetcher.
// fetcher may be nil when content is skipped.
func NewEngine(fetcher Fetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fetcher == nil {
		e.skipContent = true
	}
	return e
}

// Content returns one sample per URL, in input order, with content features
// filled in. Tokenization does not depend on it; callers build the feature
// matrix only after Content returns.
func (e *Engine) Content(ctx context.Context, urls []string) ([]*Sample, error) {
	if e.skipContent {
		samples := make([]*Sample, len(urls))
		for i, u := range urls {
			samples[i] = NewSample(i, u)
		}
		return samples, nil
	}

	var done atomic.Int64
	e.logger.Debug("gathering page content",
		"urls", len(urls),
		"steps", e.newPipeline(&done, len(urls)).StepNames(),
		"concurrency", e.concurrency,
	)
	bp := NewBatchProcessor(func() *Pipeline { return e.newPipeline(&done, len(urls)) },
		WithConcurrency(e.concurrency),
		WithBatchLogger(e.logger),
	)

	samples, err := bp.ProcessBatch(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("content retrieval cancelled: %w", err)
	}
	return samples, nil
}

// newPipeline builds the per-sample content pipeline.
func (e *Engine) newPipeline(done *atomic.Int64, total int) *Pipeline {
	p := New(WithLogger(e.logger))
	p.AddSteps(NewFetchStep(e.fetcher, e.logger), NewExtractStep())
	if e.progress != nil {
		p.AddStep(&progressStep{done: done, total: total, report: e.progress})
	}
	return p
}

// Train gathers content for the labeled records and fits the model.
func (e *Engine) Train(ctx context.Context, records []model.URLRecord) (*Trained, error) {
	if len(records) == 0 {
		return nil, bayes.ErrEmptyTrainingSet
	}

	start := time.Now()
	samples, err := e.Content(ctx, model.URLs(records))
	if err != nil {
		return nil, err
	}

	m, vocab, err := bayes.Train(records, contentOf(samples))
	if err != nil {
		return nil, err
	}

	trained := &Trained{
		Model:         m,
		Vocabulary:    vocab,
		Rows:          len(records),
		FetchFailures: countFetchFailures(samples),
	}
	e.logger.Info("model trained",
		"rows", trained.Rows,
		"vocabulary", vocab.Size(),
		"malicious", m.ClassCount(model.LabelMalicious),
		"benign", m.ClassCount(model.LabelBenign),
		"fetch_failures", trained.FetchFailures,
		"elapsed", time.Since(start),
	)
	return trained, nil
}

// Classify gathers content for urls and predicts a label for each, in input order.
func (e *Engine) Classify(ctx context.Context, trained *Trained, urls []string) ([]model.Prediction, error) {
	if trained == nil {
		return nil, bayes.ErrNilModel
	}

	samples, err := e.Content(ctx, urls)
	if err != nil {
		return nil, err
	}

	scores, err := bayes.Classify(trained.Model, trained.Vocabulary, model.NewRecords(urls), contentOf(samples))
	if err != nil {
		return nil, err
	}

	predictions := make([]model.Prediction, len(urls))
	for i, s := range samples {
		predictions[i] = model.Prediction{
			URL:         s.URL,
			Label:       scores[i].Label(),
			Probability: scores[i].Probability(),
			Content:     s.Content,
			FetchError:  s.FetchError(),
		}
	}
	return predictions, nil
}

// Evaluate classifies labeled records and compares the predictions with
// their labels.
func (e *Engine) Evaluate(ctx context.Context, trained *Trained, records []model.URLRecord) (*bayes.Evaluation, []model.Prediction, error) {
	predictions, err := e.Classify(ctx, trained, model.URLs(records))
	if err != nil {
		return nil, nil, err
	}

	actual := make([]model.Label, len(records))
	predicted := make([]model.Label, len(records))
	for i := range records {
		actual[i] = records[i].Label
		predicted[i] = predictions[i].Label
	}

	eval, err := bayes.Evaluate(actual, predicted)
	if err != nil {
		return nil, nil, err
	}
	return eval, predictions, nil
}

// contentOf returns the content vectors of samples in order.
func contentOf(samples []*Sample) []model.ContentFeatures {
	content := make([]model.ContentFeatures, len(samples))
	for i, s := range samples {
		content[i] = s.Content
	}
	return content
}

func countFetchFailures(samples []*Sample) int {
	n := 0
	for _, s := range samples {
		if s.FetchErr != nil {
			n++
		}
	}
	return n
}

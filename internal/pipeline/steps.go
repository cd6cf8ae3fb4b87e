package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/nao1215/malurl/internal/content"
	"github.com/nao1215/malurl/internal/fetch"
	"github.com/nao1215/malurl/internal/model"
)

// Fetcher retrieves page markup for a URL. *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchStep downloads the markup of the sample URL.
// A failed fetch is recorded on the sample, not returned.
type FetchStep struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewFetchStep creates a fetch step.
func NewFetchStep(fetcher Fetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: fetcher, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the sample URL. Relative or scheme-less URLs are not fetched.
func (s *FetchStep) Do(ctx context.Context, sample *Sample) error {
	if !fetch.IsValidURL(sample.URL) {
		sample.FetchErr = fetch.ErrInvalidURL
		s.logger.Debug("skipping content fetch for invalid URL", "url", sample.URL)
		return nil
	}

	markup, err := s.fetcher.Fetch(ctx, sample.URL)
	if err != nil {
		sample.FetchErr = err
		s.logger.Warn("content fetch failed, using empty content", "url", sample.URL, "error", err)
		return nil
	}
	sample.Markup = markup
	return nil
}

// ExtractStep computes the content features of the fetched markup.
type ExtractStep struct{}

// NewExtractStep creates an extract step.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do sets sample.Content. Samples without markup get an all-zero vector.
func (s *ExtractStep) Do(_ context.Context, sample *Sample) error {
	if sample.FetchErr != nil || sample.Markup == "" {
		sample.Content = model.ContentFeatures{}
		return nil
	}
	sample.Content = content.ExtractMarkup(sample.Markup)
	return nil
}

// progressStep reports how many samples have finished.
type progressStep struct {
	done   *atomic.Int64
	total  int
	report func(done, total int)
}

func (s *progressStep) Name() string {
	return "progress"
}

func (s *progressStep) Do(_ context.Context, _ *Sample) error {
	s.report(int(s.done.Add(1)), s.total)
	return nil
}

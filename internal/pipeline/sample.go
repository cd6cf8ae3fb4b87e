package pipeline

import "github.com/nao1215/malurl/internal/model"

// Sample carries one URL through the pipeline.
type Sample struct {
	// Index is the position of the URL in the batch input.
	Index int

	// URL is the URL being processed.
	URL string

	// Markup is the fetched page body. Empty if the fetch failed or was skipped.
	Markup string

	// Content holds the extracted content features.
	Content model.ContentFeatures

	// FetchErr records why the markup is unavailable.
	FetchErr error

	// Err records a critical step failure.
	Err error

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string
}

// NewSample creates a sample for url at position index.
func NewSample(index int, url string) *Sample {
	return &Sample{
		Index:          index,
		URL:            url,
		PerformedSteps: make([]string, 0, 2),
	}
}

// FetchError returns the fetch failure message, or "" if the fetch succeeded.
func (s *Sample) FetchError() string {
	if s.FetchErr == nil {
		return ""
	}
	return s.FetchErr.Error()
}

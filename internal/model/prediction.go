package model

import "time"

// Prediction is the classification result for one URL.
type Prediction struct {
	// URL is the classified URL exactly as supplied.
	URL string `json:"url"`

	// Label is the predicted class.
	Label Label `json:"label"`

	// Probability is the model's probability that the URL is malicious.
	Probability float64 `json:"probability"`

	// Content holds the content features used for this row.
	Content ContentFeatures `json:"content"`

	// FetchError describes why page content was unavailable.
	// Empty when the page was fetched or content fetching was disabled.
	FetchError string `json:"fetch_error,omitempty"`
}

// ClassificationRun groups the predictions of one CLI invocation.
type ClassificationRun struct {
	// ID uniquely identifies the run in the history database.
	ID string `json:"id"`

	// Command is the CLI command that produced the run (classify, discover).
	Command string `json:"command"`

	// Source is the page URL for discover runs, empty otherwise.
	Source string `json:"source,omitempty"`

	// StartedAt is when classification began.
	StartedAt time.Time `json:"started_at"`

	// TrainingRows is the number of corpus rows the model was trained on.
	TrainingRows int `json:"training_rows"`

	// VocabularySize is the number of token columns of the fitted vocabulary.
	VocabularySize int `json:"vocabulary_size"`

	// Predictions holds one entry per URL, in input order.
	Predictions []Prediction `json:"predictions"`
}

// NewClassificationRun creates an empty run started now.
func NewClassificationRun(id, command string) *ClassificationRun {
	return &ClassificationRun{
		ID:          id,
		Command:     command,
		StartedAt:   time.Now(),
		Predictions: make([]Prediction, 0),
	}
}

// CountByLabel returns how many predictions carry the given label.
func (r *ClassificationRun) CountByLabel(label Label) int {
	n := 0
	for _, p := range r.Predictions {
		if p.Label == label {
			n++
		}
	}
	return n
}

// MaliciousCount returns the number of URLs predicted malicious.
func (r *ClassificationRun) MaliciousCount() int {
	return r.CountByLabel(LabelMalicious)
}

// BenignCount returns the number of URLs predicted benign.
func (r *ClassificationRun) BenignCount() int {
	return r.CountByLabel(LabelBenign)
}

// FetchFailures returns the number of rows whose content could not be fetched.
func (r *ClassificationRun) FetchFailures() int {
	n := 0
	for _, p := range r.Predictions {
		if p.FetchError != "" {
			n++
		}
	}
	return n
}

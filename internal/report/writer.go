package report

import (
	"io"

	"github.com/nao1215/malurl/internal/bayes"
	"github.com/nao1215/malurl/internal/database"
	"github.com/nao1215/malurl/internal/model"
)

// Writer defines the interface for report output.
// Each method returns the number of bytes written and any error encountered.
type Writer interface {
	// WriteRun outputs the predictions of a classify or discover run.
	WriteRun(run *model.ClassificationRun) (int, error)

	// WriteEvaluation outputs held-out metrics of a trained model.
	WriteEvaluation(report *EvaluationReport) (int, error)

	// WriteFeatures outputs the content features of one page.
	WriteFeatures(report *FeatureReport) (int, error)

	// WriteHistory outputs stored runs, newest first.
	WriteHistory(runs []database.RunSummary) (int, error)
}

// EvaluationReport is the result of the evaluate command.
type EvaluationReport struct {
	// Corpus is the path of the labeled corpus.
	Corpus string `json:"corpus"`

	// TrainRows and TestRows are the sizes of the split.
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	// VocabularySize is the number of token columns of the fitted vocabulary.
	VocabularySize int `json:"vocabulary_size"`

	// Metrics holds per-class and aggregate scores.
	Metrics *bayes.Evaluation `json:"metrics"`
}

// FeatureReport is the result of the features command.
type FeatureReport struct {
	// URL is the inspected page.
	URL string `json:"url"`

	// Features is the vector the classifier would use for the page.
	Features model.ContentFeatures `json:"features"`

	// Raw holds page-wide substring counts for comparison.
	Raw model.ContentFeatures `json:"raw"`

	// FetchError is set when the page could not be fetched.
	FetchError string `json:"fetch_error,omitempty"`
}

// MultiWriter writes to multiple Writers in order.
// It stops on the first error encountered.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRun outputs the run to all configured Writers.
func (m *MultiWriter) WriteRun(run *model.ClassificationRun) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteRun(run) })
}

// WriteEvaluation outputs the evaluation to all configured Writers.
func (m *MultiWriter) WriteEvaluation(report *EvaluationReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteEvaluation(report) })
}

// WriteFeatures outputs the feature report to all configured Writers.
func (m *MultiWriter) WriteFeatures(report *FeatureReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteFeatures(report) })
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(runs []database.RunSummary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(runs) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is the timestamp format used by text and Markdown reports.
const timeLayout = "2006-01-02 15:04:05 MST"

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

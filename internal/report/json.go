package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/malurl/internal/database"
	"github.com/nao1215/malurl/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is embedded in run documents when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion wraps run documents in a RunDocument carrying version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RunDocument is a run wrapped with the version of the tool that produced it.
type RunDocument struct {
	// Version is the malurl version that generated this report.
	Version string `json:"version"`

	// Run is the classification run.
	Run *model.ClassificationRun `json:"run"`

	// Summary holds the verdict counts for quick access.
	Summary RunSummary `json:"summary"`
}

// RunSummary counts the verdicts of a run.
type RunSummary struct {
	Total         int `json:"total"`
	Malicious     int `json:"malicious"`
	Benign        int `json:"benign"`
	FetchFailures int `json:"fetch_failures"`
}

// NewRunSummary counts the verdicts of run.
func NewRunSummary(run *model.ClassificationRun) RunSummary {
	return RunSummary{
		Total:         len(run.Predictions),
		Malicious:     run.MaliciousCount(),
		Benign:        run.BenignCount(),
		FetchFailures: run.FetchFailures(),
	}
}

// WriteRun outputs the run in JSON format.
func (w *JSONWriter) WriteRun(run *model.ClassificationRun) (int, error) {
	if w.version == "" {
		return w.writeJSON(run)
	}
	return w.writeJSON(&RunDocument{
		Version: w.version,
		Run:     run,
		Summary: NewRunSummary(run),
	})
}

// WriteEvaluation outputs the evaluation in JSON format.
func (w *JSONWriter) WriteEvaluation(report *EvaluationReport) (int, error) {
	return w.writeJSON(report)
}

// WriteFeatures outputs the feature report in JSON format.
func (w *JSONWriter) WriteFeatures(report *FeatureReport) (int, error) {
	return w.writeJSON(report)
}

// WriteHistory outputs the history in JSON format.
func (w *JSONWriter) WriteHistory(runs []database.RunSummary) (int, error) {
	if runs == nil {
		runs = []database.RunSummary{}
	}
	return w.writeJSON(runs)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

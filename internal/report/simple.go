package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/malurl/internal/bayes"
	"github.com/nao1215/malurl/internal/database"
	"github.com/nao1215/malurl/internal/model"
)

// ruleWidth is the width of the separator lines of text reports.
const ruleWidth = 78

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showContent prints the content features of every prediction.
	showContent bool

	// verbose adds fetch error details to run reports.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowContent prints the content features under each prediction.
func WithShowContent(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showContent = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteRun outputs one line per prediction followed by verdict totals.
func (w *SimpleWriter) WriteRun(run *model.ClassificationRun) (int, error) {
	var sb strings.Builder

	writeTitle(&sb, "MALURL CLASSIFICATION")
	fmt.Fprintf(&sb, "Run:            %s\n", run.ID)
	fmt.Fprintf(&sb, "Command:        %s\n", run.Command)
	if run.Source != "" {
		fmt.Fprintf(&sb, "Source:         %s\n", run.Source)
	}
	fmt.Fprintf(&sb, "Date:           %s\n", run.StartedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Training Rows:  %d\n", run.TrainingRows)
	fmt.Fprintf(&sb, "Vocabulary:     %d tokens\n\n", run.VocabularySize)

	writeSection(&sb, "PREDICTIONS")
	if len(run.Predictions) == 0 {
		sb.WriteString("  No URLs classified\n")
	}
	for i, p := range run.Predictions {
		fmt.Fprintf(&sb, "%4d  %-9s  %6.2f%%  %s\n", i+1, p.Label, p.Probability*100, p.URL)
		if p.FetchError != "" && w.verbose {
			fmt.Fprintf(&sb, "      content unavailable: %s\n", p.FetchError)
		}
		if w.showContent {
			writeContentLine(&sb, p.Content)
		}
	}
	sb.WriteString("\n")

	summary := NewRunSummary(run)
	writeSection(&sb, "SUMMARY")
	fmt.Fprintf(&sb, "  MALICIOUS:       %d\n", summary.Malicious)
	fmt.Fprintf(&sb, "  BENIGN:          %d\n", summary.Benign)
	fmt.Fprintf(&sb, "  FETCH FAILURES:  %d\n", summary.FetchFailures)
	fmt.Fprintf(&sb, "  TOTAL:           %d URLs\n", summary.Total)
	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteEvaluation outputs a classification report table.
func (w *SimpleWriter) WriteEvaluation(report *EvaluationReport) (int, error) {
	var sb strings.Builder

	writeTitle(&sb, "MALURL EVALUATION")
	fmt.Fprintf(&sb, "Corpus:         %s\n", report.Corpus)
	fmt.Fprintf(&sb, "Train / Test:   %d / %d rows\n", report.TrainRows, report.TestRows)
	fmt.Fprintf(&sb, "Vocabulary:     %d tokens\n\n", report.VocabularySize)

	m := report.Metrics
	writeSection(&sb, "CLASSIFICATION REPORT")
	fmt.Fprintf(&sb, "%14s  %9s  %9s  %9s  %9s\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range m.Classes {
		writeMetricsRow(&sb, c.Label.String(), c)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%14s  %9s  %9s  %9.2f  %9d\n", "accuracy", "", "", m.Accuracy, m.Total)
	writeMetricsRow(&sb, "macro avg", m.MacroAvg)
	writeMetricsRow(&sb, "weighted avg", m.WeightedAvg)
	sb.WriteString("\n")

	writeSection(&sb, "CONFUSION MATRIX (rows: actual, columns: predicted)")
	fmt.Fprintf(&sb, "%14s  %9s  %9s\n", "", model.LabelBenign, model.LabelMalicious)
	for _, actual := range model.Labels {
		row := m.Confusion[actual]
		fmt.Fprintf(&sb, "%14s  %9d  %9d\n", actual, row[model.LabelBenign], row[model.LabelMalicious])
	}
	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteFeatures outputs the classifier features next to raw page counts.
func (w *SimpleWriter) WriteFeatures(report *FeatureReport) (int, error) {
	var sb strings.Builder

	writeTitle(&sb, "MALURL CONTENT FEATURES")
	fmt.Fprintf(&sb, "URL:            %s\n", report.URL)
	if report.FetchError != "" {
		fmt.Fprintf(&sb, "Status:         FETCH FAILED - %s\n", report.FetchError)
	}
	sb.WriteString("\n")

	writeSection(&sb, "FEATURES")
	fmt.Fprintf(&sb, "  %-22s  %10s  %10s\n", "feature", "classifier", "page-wide")
	features := report.Features.Vector()
	raw := report.Raw.Vector()
	for i, name := range model.ContentFeatureNames {
		fmt.Fprintf(&sb, "  %-22s  %10.0f  %10.0f\n", name, features[i], raw[i])
	}
	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs one line per stored run.
func (w *SimpleWriter) WriteHistory(runs []database.RunSummary) (int, error) {
	var sb strings.Builder

	writeTitle(&sb, "MALURL HISTORY")
	if len(runs) == 0 {
		sb.WriteString("  No runs recorded\n")
	}
	for _, r := range runs {
		fmt.Fprintf(&sb, "%s  %s  %-8s  malicious=%d benign=%d fetch_failures=%d\n",
			r.StartedAt.Local().Format(timeLayout), r.ID, r.Command,
			r.MaliciousCount, r.BenignCount, r.FetchFailures)
		if r.Source != "" {
			fmt.Fprintf(&sb, "    source: %s\n", r.Source)
		}
	}
	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func writeMetricsRow(sb *strings.Builder, name string, c bayes.ClassMetrics) {
	fmt.Fprintf(sb, "%14s  %9.2f  %9.2f  %9.2f  %9d\n", name, c.Precision, c.Recall, c.F1, c.Support)
}

func writeContentLine(sb *strings.Builder, c model.ContentFeatures) {
	vec := c.Vector()
	parts := make([]string, 0, len(vec))
	for i, name := range model.ContentFeatureNames {
		if vec[i] != 0 {
			parts = append(parts, fmt.Sprintf("%s=%.0f", name, vec[i]))
		}
	}
	if len(parts) == 0 {
		sb.WriteString("      content: none\n")
		return
	}
	sb.WriteString("      content: " + strings.Join(parts, " ") + "\n")
}

func writeTitle(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, name string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(name + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by malurl\n")
	sb.WriteString("https://github.com/nao1215/malurl\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

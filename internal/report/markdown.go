package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/malurl/internal/bayes"
	"github.com/nao1215/malurl/internal/database"
	"github.com/nao1215/malurl/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRun outputs the run as a Markdown document.
func (w *MarkdownWriter) WriteRun(run *model.ClassificationRun) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := NewRunSummary(run)

	md.H1("malurl Classification Report")
	md.PlainText("")

	rows := [][]string{
		{"Run", "`" + run.ID + "`"},
		{"Command", run.Command},
	}
	if run.Source != "" {
		rows = append(rows, []string{"Source", "`" + run.Source + "`"})
	}
	rows = append(rows,
		[]string{"Date", run.StartedAt.Format(timeLayout)},
		[]string{"Training Rows", strconv.Itoa(run.TrainingRows)},
		[]string{"Vocabulary", strconv.Itoa(run.VocabularySize)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"🔴 Malicious", strconv.Itoa(summary.Malicious)},
			{"🟢 Benign", strconv.Itoa(summary.Benign)},
			{"⚪ Fetch Failures", strconv.Itoa(summary.FetchFailures)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)

	md.H2("Predictions")
	md.PlainText("")
	if len(run.Predictions) == 0 {
		md.PlainText("No URLs classified.")
		md.PlainText("")
	} else {
		w.writePredictionsTable(md, run.Predictions)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writePieChart writes a mermaid pie chart of the verdicts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdict Distribution"),
		piechart.WithShowData(true),
	)

	if summary.Malicious > 0 {
		chart.LabelAndIntValue("Malicious", uint64(summary.Malicious))
	}
	if summary.Benign > 0 {
		chart.LabelAndIntValue("Benign", uint64(summary.Benign))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert based on the verdict counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary RunSummary) {
	switch {
	case summary.Malicious > 0:
		md.Cautionf("%d of %d URL(s) classified as malicious.", summary.Malicious, summary.Total)
	case summary.FetchFailures > 0:
		md.Note(fmt.Sprintf("No malicious URLs, but %d page(s) could not be fetched and were classified on tokens only.",
			summary.FetchFailures))
	case summary.Total > 0:
		md.Tip("No malicious URLs detected.")
	}
	md.PlainText("")
}

// writePredictionsTable writes one row per prediction in input order.
func (w *MarkdownWriter) writePredictionsTable(md *markdown.Markdown, predictions []model.Prediction) {
	rows := make([][]string, len(predictions))
	for i, p := range predictions {
		note := "-"
		if p.FetchError != "" {
			note = truncateString(p.FetchError, 60)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			"`" + truncateString(p.URL, 80) + "`",
			p.Label.String(),
			strconv.FormatFloat(p.Probability, 'f', 4, 64),
			note,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Verdict", "P(malicious)", "Fetch Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteEvaluation outputs the evaluation as Markdown tables.
func (w *MarkdownWriter) WriteEvaluation(report *EvaluationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	m := report.Metrics

	md.H1("malurl Evaluation Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Corpus", "`" + report.Corpus + "`"},
			{"Train Rows", strconv.Itoa(report.TrainRows)},
			{"Test Rows", strconv.Itoa(report.TestRows)},
			{"Vocabulary", strconv.Itoa(report.VocabularySize)},
			{"Accuracy", formatScore(m.Accuracy)},
		},
	})
	md.PlainText("")

	md.H2("Classification Report")
	md.PlainText("")
	rows := make([][]string, 0, len(m.Classes)+2)
	for _, c := range m.Classes {
		rows = append(rows, metricsRow(c.Label.String(), c))
	}
	rows = append(rows,
		metricsRow("macro avg", m.MacroAvg),
		metricsRow("weighted avg", m.WeightedAvg),
	)
	md.Table(markdown.TableSet{
		Header: []string{"Class", "Precision", "Recall", "F1", "Support"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Confusion Matrix")
	md.PlainText("")
	confusion := make([][]string, 0, model.LabelCount)
	for _, actual := range model.Labels {
		confusion = append(confusion, []string{
			actual.String(),
			strconv.Itoa(m.Confusion[actual][model.LabelBenign]),
			strconv.Itoa(m.Confusion[actual][model.LabelMalicious]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Actual \\ Predicted", "Benign", "Malicious"},
		Rows:   confusion,
	})
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteFeatures outputs the feature comparison as a Markdown table.
func (w *MarkdownWriter) WriteFeatures(report *FeatureReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("malurl Content Features")
	md.PlainText("")
	md.PlainTextf("URL: `%s`", report.URL)
	md.PlainText("")
	if report.FetchError != "" {
		md.Warningf("Page could not be fetched: %s", report.FetchError)
		md.PlainText("")
	}

	features := report.Features.Vector()
	raw := report.Raw.Vector()
	rows := make([][]string, len(model.ContentFeatureNames))
	for i, name := range model.ContentFeatureNames {
		rows[i] = []string{
			"`" + name + "`",
			strconv.FormatFloat(features[i], 'f', 0, 64),
			strconv.FormatFloat(raw[i], 'f', 0, 64),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Feature", "Classifier", "Page-wide"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteHistory outputs stored runs as a Markdown table.
func (w *MarkdownWriter) WriteHistory(runs []database.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("malurl History")
	md.PlainText("")
	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(runs))
		for i, r := range runs {
			source := r.Source
			if source == "" {
				source = "-"
			}
			rows[i] = []string{
				r.StartedAt.Local().Format(timeLayout),
				"`" + r.ID + "`",
				r.Command,
				source,
				strconv.Itoa(r.MaliciousCount),
				strconv.Itoa(r.BenignCount),
				strconv.Itoa(r.FetchFailures),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Date", "Run", "Command", "Source", "Malicious", "Benign", "Fetch Failures"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [malurl](https://github.com/nao1215/malurl)*")
}

func metricsRow(name string, c bayes.ClassMetrics) []string {
	return []string{
		name,
		formatScore(c.Precision),
		formatScore(c.Recall),
		formatScore(c.F1),
		strconv.Itoa(c.Support),
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

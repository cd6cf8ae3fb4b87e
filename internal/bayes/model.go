package bayes

import (
	"fmt"
	"math"

	"github.com/nao1215/malurl/internal/feature"
	"github.com/nao1215/malurl/internal/model"
)

// Model holds the fitted parameters of a two-class multinomial naive Bayes
// classifier. It is immutable after training.
type Model struct {
	// logPrior is ln(count(c)/N) per class.
	logPrior [model.LabelCount]float64

	// logLikelihood is the smoothed log likelihood per class and column.
	logLikelihood [model.LabelCount][]float64

	// classCount is the number of training rows per class.
	classCount [model.LabelCount]int

	// cols is the number of feature columns the model was fitted on.
	cols int
}

// Train fits a vocabulary over the record URLs and a Model over the fused
// matrix. content[i] belongs to records[i].
func Train(records []model.URLRecord, content []model.ContentFeatures) (*Model, *feature.Vocabulary, error) {
	if len(records) == 0 {
		return nil, nil, ErrEmptyTrainingSet
	}

	labels := make([]model.Label, len(records))
	for i, r := range records {
		if !r.Labeled {
			return nil, nil, fmt.Errorf("%w: row %d (%s)", ErrUnlabeledRecord, i, r.URL)
		}
		labels[i] = r.Label
	}
	if err := checkClasses(labels); err != nil {
		return nil, nil, err
	}

	vocab, matrix, err := feature.Fit(model.URLs(records), content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build feature matrix: %w", err)
	}

	m, err := FitMatrix(matrix, labels)
	if err != nil {
		return nil, nil, err
	}
	return m, vocab, nil
}

// FitMatrix estimates model parameters from an already fused matrix.
// labels[i] is the class of matrix row i.
func FitMatrix(matrix *feature.Matrix, labels []model.Label) (*Model, error) {
	if matrix == nil || matrix.Rows() == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if matrix.Rows() != len(labels) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, matrix.Rows(), len(labels))
	}
	if err := checkClasses(labels); err != nil {
		return nil, err
	}

	cols := matrix.Cols()
	m := &Model{cols: cols}

	var featureSum [model.LabelCount][]float64
	var totalSum [model.LabelCount]float64
	for _, c := range model.Labels {
		featureSum[c] = make([]float64, cols)
	}

	for i := 0; i < matrix.Rows(); i++ {
		c := labels[i]
		m.classCount[c]++
		for j, x := range matrix.Row(i) {
			if x < 0 {
				return nil, fmt.Errorf("%w: row %d column %d is %g", ErrNegativeFeature, i, j, x)
			}
			featureSum[c][j] += x
			totalSum[c] += x
		}
	}

	n := float64(matrix.Rows())
	for _, c := range model.Labels {
		m.logPrior[c] = math.Log(float64(m.classCount[c]) / n)
		m.logLikelihood[c] = make([]float64, cols)
		denominator := totalSum[c] + float64(cols)
		for j := range cols {
			m.logLikelihood[c][j] = math.Log((featureSum[c][j] + 1) / denominator)
		}
	}
	return m, nil
}

// checkClasses validates labels and requires both classes to be present.
func checkClasses(labels []model.Label) error {
	if len(labels) == 0 {
		return ErrEmptyTrainingSet
	}
	var seen [model.LabelCount]bool
	for i, l := range labels {
		if !l.Valid() {
			return fmt.Errorf("row %d: %w", i, model.ErrInvalidLabel)
		}
		seen[l] = true
	}
	for _, ok := range seen {
		if !ok {
			return ErrSingleClass
		}
	}
	return nil
}

// Cols returns the number of feature columns the model expects.
func (m *Model) Cols() int {
	return m.cols
}

// LogPrior returns ln(P(c)).
func (m *Model) LogPrior(c model.Label) float64 {
	return m.logPrior[c]
}

// LogLikelihood returns the smoothed log likelihood of column j under class c.
func (m *Model) LogLikelihood(c model.Label, j int) float64 {
	return m.logLikelihood[c][j]
}

// ClassCount returns the number of training rows of class c.
func (m *Model) ClassCount(c model.Label) int {
	return m.classCount[c]
}

package bayes

import (
	"fmt"
	"math"

	"github.com/nao1215/malurl/internal/feature"
	"github.com/nao1215/malurl/internal/model"
)

// Scores is the per-class decision detail of one row.
type Scores struct {
	// Benign is log P(benign) + Σ x_j·loglik(benign, j).
	Benign float64

	// Malicious is log P(malicious) + Σ x_j·loglik(malicious, j).
	Malicious float64
}

// Label returns the class with the higher score. Ties go to benign.
func (s Scores) Label() model.Label {
	if s.Malicious > s.Benign {
		return model.LabelMalicious
	}
	return model.LabelBenign
}

// Probability returns the softmax probability of the malicious class.
func (s Scores) Probability() float64 {
	return 1 / (1 + math.Exp(s.Benign-s.Malicious))
}

// Score computes the class scores of a single fused row.
func (m *Model) Score(row []float64) (Scores, error) {
	if len(row) != m.cols {
		return Scores{}, fmt.Errorf("%w: row has %d columns, model has %d", ErrDimensionMismatch, len(row), m.cols)
	}

	s := Scores{
		Benign:    m.logPrior[model.LabelBenign],
		Malicious: m.logPrior[model.LabelMalicious],
	}
	for j, x := range row {
		if x == 0 {
			continue
		}
		s.Benign += x * m.logLikelihood[model.LabelBenign][j]
		s.Malicious += x * m.logLikelihood[model.LabelMalicious][j]
	}
	return s, nil
}

// PredictMatrix scores every row of a fused matrix.
func (m *Model) PredictMatrix(matrix *feature.Matrix) ([]Scores, error) {
	if matrix.Cols() != m.cols {
		return nil, fmt.Errorf("%w: matrix has %d columns, model has %d", ErrDimensionMismatch, matrix.Cols(), m.cols)
	}

	scores := make([]Scores, matrix.Rows())
	for i := range scores {
		s, err := m.Score(matrix.Row(i))
		if err != nil {
			return nil, err
		}
		scores[i] = s
	}
	return scores, nil
}

// Classify transforms the rows with the frozen vocabulary and returns the
// per-row scores in input order.
func Classify(m *Model, vocab *feature.Vocabulary, records []model.URLRecord, content []model.ContentFeatures) ([]Scores, error) {
	if m == nil || vocab == nil {
		return nil, ErrNilModel
	}
	if vocab.Columns() != m.cols {
		return nil, fmt.Errorf("%w: vocabulary has %d columns, model has %d", ErrDimensionMismatch, vocab.Columns(), m.cols)
	}

	matrix, err := vocab.Transform(model.URLs(records), content)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature matrix: %w", err)
	}
	return m.PredictMatrix(matrix)
}

// Predict returns the predicted label of every row, in input order.
// It does not modify the model or the vocabulary.
func Predict(m *Model, vocab *feature.Vocabulary, records []model.URLRecord, content []model.ContentFeatures) ([]model.Label, error) {
	scores, err := Classify(m, vocab, records, content)
	if err != nil {
		return nil, err
	}

	labels := make([]model.Label, len(scores))
	for i, s := range scores {
		labels[i] = s.Label()
	}
	return labels, nil
}

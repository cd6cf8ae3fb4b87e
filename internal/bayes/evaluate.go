package bayes

import (
	"fmt"

	"github.com/nao1215/malurl/internal/model"
)

// ClassMetrics holds the precision, recall and F1 score of one class.
type ClassMetrics struct {
	Label     model.Label `json:"label"`
	Precision float64     `json:"precision"`
	Recall    float64     `json:"recall"`
	F1        float64     `json:"f1"`
	Support   int         `json:"support"`
}

// Evaluation summarizes predictions against known labels.
type Evaluation struct {
	// Classes holds per-class metrics indexed by label.
	Classes [model.LabelCount]ClassMetrics `json:"classes"`

	// Accuracy is the share of correctly predicted rows.
	Accuracy float64 `json:"accuracy"`

	// MacroAvg is the unweighted mean of the per-class metrics.
	MacroAvg ClassMetrics `json:"macro_avg"`

	// WeightedAvg is the support-weighted mean of the per-class metrics.
	WeightedAvg ClassMetrics `json:"weighted_avg"`

	// Confusion[actual][predicted] counts rows.
	Confusion [model.LabelCount][model.LabelCount]int `json:"confusion"`

	// Total is the number of evaluated rows.
	Total int `json:"total"`
}

// Evaluate compares predicted labels with actual labels.
// Undefined ratios (zero denominators) are reported as 0.
func Evaluate(actual, predicted []model.Label) (*Evaluation, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("%w: %d actual, %d predicted", ErrDimensionMismatch, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return nil, ErrEmptyTrainingSet
	}

	e := &Evaluation{Total: len(actual)}
	correct := 0
	for i := range actual {
		a, p := actual[i], predicted[i]
		if !a.Valid() || !p.Valid() {
			return nil, fmt.Errorf("row %d: %w", i, model.ErrInvalidLabel)
		}
		e.Confusion[a][p]++
		if a == p {
			correct++
		}
	}
	e.Accuracy = ratio(correct, e.Total)

	for _, c := range model.Labels {
		tp := e.Confusion[c][c]
		predictedAs, support := 0, 0
		for _, other := range model.Labels {
			predictedAs += e.Confusion[other][c]
			support += e.Confusion[c][other]
		}

		m := ClassMetrics{
			Label:     c,
			Precision: ratio(tp, predictedAs),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		e.Classes[c] = m
	}

	e.MacroAvg.Support = e.Total
	e.WeightedAvg.Support = e.Total
	for _, m := range e.Classes {
		e.MacroAvg.Precision += m.Precision / model.LabelCount
		e.MacroAvg.Recall += m.Recall / model.LabelCount
		e.MacroAvg.F1 += m.F1 / model.LabelCount

		w := ratio(m.Support, e.Total)
		e.WeightedAvg.Precision += m.Precision * w
		e.WeightedAvg.Recall += m.Recall * w
		e.WeightedAvg.F1 += m.F1 * w
	}
	return e, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

package corpus

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/nao1215/malurl/internal/model"
)

// DefaultTestRatio and DefaultSeed reproduce the reference evaluation split.
const (
	DefaultTestRatio = 0.2
	DefaultSeed      = 42
)

// Split shuffles records deterministically with seed and returns the
// training and test partitions. The test partition holds ceil(n*ratio)
// rows but never all of them. The input slice is not modified.
func Split(records []model.URLRecord, ratio float64, seed uint64) (train, test []model.URLRecord, err error) {
	if ratio < 0 || ratio >= 1 || math.IsNaN(ratio) {
		return nil, nil, fmt.Errorf("%w: %g", ErrInvalidTestRatio, ratio)
	}
	if len(records) == 0 {
		return nil, nil, ErrNoRows
	}

	shuffled := make([]model.URLRecord, len(records))
	copy(shuffled, records)
	r := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // reproducible split, not security sensitive
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	testSize := int(math.Ceil(float64(n) * ratio))
	if testSize >= n {
		testSize = n - 1
	}
	return shuffled[testSize:], shuffled[:testSize], nil
}

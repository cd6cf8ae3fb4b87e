package feature

import (
	"fmt"
	"math"
	"slices"

	"github.com/nao1215/malurl/internal/model"
	"github.com/nao1215/malurl/internal/token"
)

// Vocabulary maps tokens to matrix columns and idf weights.
// A Vocabulary is immutable after Fit and safe for concurrent use.
type Vocabulary struct {
	// tokens holds the token of each column, sorted.
	tokens []string

	// index maps a token to its column.
	index map[string]int

	// idf holds the inverse document frequency of each column.
	idf []float64

	// documents is the number of rows the vocabulary was fitted on.
	documents int
}

// Fit tokenizes the training URLs, builds the vocabulary and returns the
// fused training matrix. content[i] belongs to urls[i].
func Fit(urls []string, content []model.ContentFeatures) (*Vocabulary, *Matrix, error) {
	if len(urls) == 0 {
		return nil, nil, ErrEmptyCorpus
	}
	if len(urls) != len(content) {
		return nil, nil, fmt.Errorf("%w: %d urls, %d content rows", ErrLengthMismatch, len(urls), len(content))
	}

	rows := make([][]string, len(urls))
	df := make(map[string]int)
	for i, u := range urls {
		rows[i] = token.Tokenize(u)
		for _, tok := range uniqueTokens(rows[i]) {
			df[tok]++
		}
	}

	v := newVocabulary(df, len(urls))
	return v, v.build(rows, content), nil
}

// newVocabulary assigns sorted column indices and smoothed idf weights:
// idf = ln((1 + n) / (1 + df)) + 1.
func newVocabulary(df map[string]int, documents int) *Vocabulary {
	tokens := make([]string, 0, len(df))
	for tok := range df {
		tokens = append(tokens, tok)
	}
	slices.Sort(tokens)

	v := &Vocabulary{
		tokens:    tokens,
		index:     make(map[string]int, len(tokens)),
		idf:       make([]float64, len(tokens)),
		documents: documents,
	}
	n := float64(documents)
	for col, tok := range tokens {
		v.index[tok] = col
		v.idf[col] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}
	return v
}

// Transform builds the fused matrix for new rows using the frozen vocabulary.
func (v *Vocabulary) Transform(urls []string, content []model.ContentFeatures) (*Matrix, error) {
	if len(urls) != len(content) {
		return nil, fmt.Errorf("%w: %d urls, %d content rows", ErrLengthMismatch, len(urls), len(content))
	}

	rows := make([][]string, len(urls))
	for i, u := range urls {
		rows[i] = token.Tokenize(u)
	}
	return v.build(rows, content), nil
}

// build computes the fused rows for pre-tokenized input.
func (v *Vocabulary) build(rows [][]string, content []model.ContentFeatures) *Matrix {
	m := newMatrix(len(rows), v.Columns())
	for i, tokens := range rows {
		row := m.data[i]
		v.weigh(tokens, row[:v.Size()])
		cv := content[i].Vector()
		copy(row[v.Size():], cv[:])
	}
	return m
}

// weigh writes l2-normalized tf-idf weights of tokens into dst.
// Tokens outside the vocabulary are skipped.
func (v *Vocabulary) weigh(tokens []string, dst []float64) {
	for _, tok := range tokens {
		if col, ok := v.index[tok]; ok {
			dst[col]++
		}
	}

	var norm float64
	for col, tf := range dst {
		if tf == 0 {
			continue
		}
		dst[col] = tf * v.idf[col]
		norm += dst[col] * dst[col]
	}
	if norm == 0 {
		return
	}

	norm = math.Sqrt(norm)
	for col := range dst {
		dst[col] /= norm
	}
}

// Size returns the number of token columns.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Columns returns the total number of matrix columns: Size() + 11.
func (v *Vocabulary) Columns() int {
	return len(v.tokens) + model.ContentFeatureCount
}

// Documents returns the number of rows the vocabulary was fitted on.
func (v *Vocabulary) Documents() int {
	return v.documents
}

// Index returns the column of a token.
func (v *Vocabulary) Index(tok string) (int, bool) {
	col, ok := v.index[tok]
	return col, ok
}

// IDF returns the inverse document frequency of a token.
func (v *Vocabulary) IDF(tok string) (float64, bool) {
	col, ok := v.index[tok]
	if !ok {
		return 0, false
	}
	return v.idf[col], true
}

// ColumnName returns the name of a matrix column: the token for token
// columns, the content feature name for the trailing columns.
func (v *Vocabulary) ColumnName(col int) (string, error) {
	switch {
	case col < 0 || col >= v.Columns():
		return "", fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	case col < len(v.tokens):
		return v.tokens[col], nil
	default:
		return model.ContentFeatureNames[col-len(v.tokens)], nil
	}
}

// uniqueTokens returns tokens without duplicates, keeping first occurrence.
func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		unique = append(unique, tok)
	}
	return unique
}

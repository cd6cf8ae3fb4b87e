// Package feature fuses URL tokens and page content features into one
// fixed-layout matrix.
//
// Fit builds a Vocabulary from a training corpus: every distinct token gets a
// column (in lexicographic order) and a smoothed inverse document frequency.
// Each row's token part holds tf-idf weights normalized to unit length, and the
// 11 content features are appended unchanged:
//
//	[ token columns in vocabulary order ][ model.ContentFeatureNames ... ]
//
// Transform applies a fitted Vocabulary to new rows. Tokens that were not seen
// during Fit contribute nothing; the vocabulary never grows after Fit, so
// matrices built from the same Vocabulary always have the same columns.
package feature

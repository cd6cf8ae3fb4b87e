package feature

import "errors"

var (
	// ErrEmptyCorpus is returned when Fit receives no rows.
	ErrEmptyCorpus = errors.New("cannot fit vocabulary on an empty corpus")

	// ErrLengthMismatch is returned when the URL and content slices differ in length.
	ErrLengthMismatch = errors.New("url and content feature counts differ")

	// ErrColumnOutOfRange is returned when a matrix column index is invalid.
	ErrColumnOutOfRange = errors.New("column index out of range")
)

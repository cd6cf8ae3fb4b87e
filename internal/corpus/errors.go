package corpus

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported corpus format: expected .csv or .xlsx")

	// ErrColumnNotFound is returned when the header row lacks a required column.
	ErrColumnNotFound = errors.New("column not found in corpus header")

	// ErrNoRows is returned when a corpus yields no usable rows.
	ErrNoRows = errors.New("corpus contains no usable rows")

	// ErrInvalidTestRatio is returned when the split ratio is outside [0, 1).
	ErrInvalidTestRatio = errors.New("test ratio must be in [0, 1)")

	// ErrSheetNotFound is returned when the requested XLSX sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found in workbook")
)

package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/malurl/internal/model"
)

const (
	// DefaultURLColumn is the header of the URL column.
	DefaultURLColumn = "URLs"

	// DefaultLabelColumn is the header of the label column.
	DefaultLabelColumn = "Class"
)

// Loader reads labeled corpora.
type Loader struct {
	urlColumn   string
	labelColumn string
	sheet       string
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithURLColumn sets the header name of the URL column.
func WithURLColumn(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.urlColumn = name
		}
	}
}

// WithLabelColumn sets the header name of the label column.
func WithLabelColumn(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.labelColumn = name
		}
	}
}

// WithSheet selects the XLSX sheet. The first sheet is used by default.
func WithSheet(name string) Option {
	return func(l *Loader) {
		l.sheet = name
	}
}

// WithLogger sets the logger used to report skipped rows.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader with default column names.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		urlColumn:   DefaultURLColumn,
		labelColumn: DefaultLabelColumn,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the corpus at path, choosing the format by file extension.
func Load(path string, opts ...Option) ([]model.URLRecord, error) {
	return NewLoader(opts...).Load(path)
}

// Load reads the corpus at path, choosing the format by file extension.
func (l *Loader) Load(path string) ([]model.URLRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus: %w", err)
		}
		defer f.Close()
		return l.ReadCSV(f)
	case ".xlsx", ".xlsm":
		return l.loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV reads a CSV corpus with a header row.
func (l *Loader) ReadCSV(r io.Reader) ([]model.URLRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row: %w", err)
		}
		rows = append(rows, row)
	}
	return l.records(header, rows)
}

// loadXLSX reads the configured sheet of a workbook.
func (l *Loader) loadXLSX(path string) ([]model.URLRecord, error) {
	f, err := excelize.OpenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, ErrNoRows
		}
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return l.records(rows[0], rows[1:])
}

// records converts data rows into labeled records using the header.
func (l *Loader) records(header []string, rows [][]string) ([]model.URLRecord, error) {
	urlIdx, err := columnIndex(header, l.urlColumn)
	if err != nil {
		return nil, err
	}
	labelIdx, err := columnIndex(header, l.labelColumn)
	if err != nil {
		return nil, err
	}

	records := make([]model.URLRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		u := cell(row, urlIdx)
		if u == "" {
			l.logger.Debug("skipping corpus row without URL", "row", line)
			continue
		}
		label, err := model.ParseLabel(cell(row, labelIdx))
		if err != nil {
			l.logger.Debug("skipping corpus row with invalid label", "row", line, "error", err)
			continue
		}
		records = append(records, model.NewLabeledRecord(u, label))
	}

	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

// columnIndex finds name in header, ignoring case and surrounding spaces
// (and a UTF-8 byte order mark on the first cell).
func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// cell returns the trimmed value at idx or "" for short rows.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

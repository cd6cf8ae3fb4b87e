package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/malurl/internal/model"
)

// DBFileName is the name of the history database file inside the db directory.
const DBFileName = "malurl.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("classification run not found")

// HistoryDB provides SQLite-based storage for classification runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per classify or discover invocation
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		source TEXT,
		started_at TEXT NOT NULL,
		training_rows INTEGER NOT NULL,
		vocabulary_size INTEGER NOT NULL,
		malicious_count INTEGER NOT NULL,
		benign_count INTEGER NOT NULL,
		fetch_failures INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Predictions keep the input order of their run
	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		label TEXT NOT NULL,
		probability REAL NOT NULL,
		content_json TEXT NOT NULL,
		fetch_error TEXT,
		UNIQUE(run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_url ON predictions(url);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// NewRunID returns a new random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun stores a run and its predictions in one transaction.
// A run without an ID is assigned a new one.
func (h *HistoryDB) SaveRun(ctx context.Context, run *model.ClassificationRun) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, command, source, started_at, training_rows, vocabulary_size,
		malicious_count, benign_count, fetch_failures)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Command,
		run.Source,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.TrainingRows,
		run.VocabularySize,
		run.MaliciousCount(),
		run.BenignCount(),
		run.FetchFailures(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO predictions (run_id, position, url, label, probability, content_json, fetch_error)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare prediction insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range run.Predictions {
		contentJSON, err := json.Marshal(p.Content)
		if err != nil {
			return fmt.Errorf("failed to serialize content features: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, p.URL, p.Label.String(), p.Probability, string(contentJSON), p.FetchError); err != nil {
			return fmt.Errorf("failed to save prediction for %s: %w", p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RunSummary contains summary information about a stored run.
// It is used for listing history without loading every prediction.
type RunSummary struct {
	ID             string    `json:"id"`
	Command        string    `json:"command"`
	Source         string    `json:"source,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	TrainingRows   int       `json:"training_rows"`
	VocabularySize int       `json:"vocabulary_size"`
	MaliciousCount int       `json:"malicious_count"`
	BenignCount    int       `json:"benign_count"`
	FetchFailures  int       `json:"fetch_failures"`
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, command, source, started_at, training_rows, vocabulary_size,
		malicious_count, benign_count, fetch_failures
	FROM runs
	ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunSummary, 0)
	for rows.Next() {
		var s RunSummary
		var source sql.NullString
		var startedAt string
		if err := rows.Scan(&s.ID, &s.Command, &source, &startedAt, &s.TrainingRows,
			&s.VocabularySize, &s.MaliciousCount, &s.BenignCount, &s.FetchFailures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.Source = source.String
		s.StartedAt = parseTimestamp(startedAt)
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetRun loads a run with all its predictions in input order.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*model.ClassificationRun, error) {
	run := &model.ClassificationRun{ID: id}
	var source sql.NullString
	var startedAt string

	err := h.db.QueryRowContext(ctx, `
	SELECT command, source, started_at, training_rows, vocabulary_size
	FROM runs WHERE id = ?`, id).Scan(&run.Command, &source, &startedAt, &run.TrainingRows, &run.VocabularySize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Source = source.String
	run.StartedAt = parseTimestamp(startedAt)

	rows, err := h.db.QueryContext(ctx, `
	SELECT url, label, probability, content_json, fetch_error
	FROM predictions WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	defer rows.Close()

	run.Predictions = make([]model.Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		run.Predictions = append(run.Predictions, p)
	}

	return run, rows.Err()
}

// URLVerdict is one past prediction of a URL.
type URLVerdict struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	Prediction model.Prediction `json:"prediction"`
}

// URLHistory returns every stored prediction for url, newest first.
func (h *HistoryDB) URLHistory(ctx context.Context, url string) ([]URLVerdict, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT r.id, r.started_at, p.url, p.label, p.probability, p.content_json, p.fetch_error
	FROM predictions p JOIN runs r ON r.id = p.run_id
	WHERE p.url = ?
	ORDER BY r.started_at DESC`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL history: %w", err)
	}
	defer rows.Close()

	results := make([]URLVerdict, 0)
	for rows.Next() {
		var v URLVerdict
		var startedAt string
		var label, contentJSON string
		var fetchErr sql.NullString
		if err := rows.Scan(&v.RunID, &startedAt, &v.Prediction.URL, &label,
			&v.Prediction.Probability, &contentJSON, &fetchErr); err != nil {
			return nil, fmt.Errorf("failed to scan verdict: %w", err)
		}
		if err := decodePrediction(&v.Prediction, label, contentJSON, fetchErr); err != nil {
			return nil, err
		}
		v.StartedAt = parseTimestamp(startedAt)
		results = append(results, v)
	}

	return results, rows.Err()
}

// scanPrediction reads one predictions row.
func scanPrediction(rows *sql.Rows) (model.Prediction, error) {
	var p model.Prediction
	var label, contentJSON string
	var fetchErr sql.NullString
	if err := rows.Scan(&p.URL, &label, &p.Probability, &contentJSON, &fetchErr); err != nil {
		return p, fmt.Errorf("failed to scan prediction: %w", err)
	}
	return p, decodePrediction(&p, label, contentJSON, fetchErr)
}

// decodePrediction fills the stored text columns into p.
func decodePrediction(p *model.Prediction, label, contentJSON string, fetchErr sql.NullString) error {
	l, err := model.ParseLabel(label)
	if err != nil {
		return fmt.Errorf("stored prediction for %s: %w", p.URL, err)
	}
	p.Label = l
	if err := json.Unmarshal([]byte(contentJSON), &p.Content); err != nil {
		return fmt.Errorf("failed to parse content features of %s: %w", p.URL, err)
	}
	p.FetchError = fetchErr.String
	return nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

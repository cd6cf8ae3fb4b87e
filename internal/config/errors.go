package config

import "errors"

// Configuration validation errors returned by Config.Validate and the loaders.
var (
	// ErrNoTarget is returned when no URL to classify is given.
	ErrNoTarget = errors.New("no target specified: provide URLs as arguments or use --list")

	// ErrNoCorpus is returned when training is requested without a corpus.
	ErrNoCorpus = errors.New("no corpus specified: use --corpus or set corpus in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTestRatio is returned when the test ratio is outside [0, 1).
	ErrInvalidTestRatio = errors.New("invalid test ratio: must be in [0, 1)")

	// ErrInvalidRateLimit is returned when the rate limit is negative.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrEmptyColumnName is returned when a corpus column name is empty.
	ErrEmptyColumnName = errors.New("corpus column names must not be empty")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidEnv is returned when a MALURL_* variable cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")
)

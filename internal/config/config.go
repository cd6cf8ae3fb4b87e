package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "malurl"

	// DefaultURLColumn is the corpus header of the URL column.
	DefaultURLColumn = "URLs"

	// DefaultLabelColumn is the corpus header of the label column.
	DefaultLabelColumn = "Class"

	// DefaultTestRatio is the share of the corpus held out by evaluate.
	DefaultTestRatio = 0.2

	// DefaultSeed makes the evaluation split reproducible.
	DefaultSeed uint64 = 42

	// DefaultTimeout bounds a single page fetch. Content is optional
	// evidence, so a slow site degrades to an empty vector quickly.
	DefaultTimeout = 5 * time.Second

	// DefaultConcurrency is the number of pages fetched at once.
	DefaultConcurrency = 10

	// DefaultRateBurst is the token bucket size when a rate limit is set.
	DefaultRateBurst = 1

	// DefaultUserAgent is sent with page fetches.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for malurl.
// It is populated from defaults, the config file, the environment and CLI
// flags, in that order, and passed explicitly to the components.
type Config struct {
	// CorpusPath is the labeled training corpus (.csv or .xlsx).
	CorpusPath string

	// URLColumn is the header of the corpus URL column.
	URLColumn string

	// LabelColumn is the header of the corpus label column.
	LabelColumn string

	// Sheet selects the XLSX sheet. Empty means the first sheet.
	Sheet string

	// TestRatio is the share of the corpus held out by evaluate, in [0, 1).
	TestRatio float64

	// Seed drives the deterministic train/test shuffle.
	Seed uint64

	// Timeout bounds each page fetch.
	Timeout time.Duration

	// Concurrency is the number of pages fetched at once.
	Concurrency int

	// RateLimit caps outbound requests per second. 0 disables the limit.
	RateLimit float64

	// RateBurst is the burst size of the rate limiter.
	RateBurst int

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with page fetches.
	UserAgent string

	// ProxyAddress routes fetches through a SOCKS5 proxy (host:port).
	ProxyAddress string

	// SkipContent disables page fetching; content features are all zero.
	SkipContent bool

	// SameSite limits discover to links on the page's registrable domain.
	SameSite bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .malurl is searched in the current and home directories.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory of the history database.
	DBDir string

	// SaveToDB stores classification runs in the history database.
	SaveToDB bool

	// Targets are the URLs to classify.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		URLColumn:   DefaultURLColumn,
		LabelColumn: DefaultLabelColumn,
		TestRatio:   DefaultTestRatio,
		Seed:        DefaultSeed,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		RateBurst:   DefaultRateBurst,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for malurl.
// On Linux: ~/.local/share/malurl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for malurl.
// On Linux: ~/.config/malurl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for malurl.
// On Linux: ~/.cache/malurl
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.TestRatio < 0 || c.TestRatio >= 1 {
		return ErrInvalidTestRatio
	}

	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.URLColumn == "" || c.LabelColumn == "" {
		return ErrEmptyColumnName
	}

	return nil
}

// ValidateTraining checks the settings needed to train a model.
func (c *Config) ValidateTraining() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CorpusPath == "" {
		return ErrNoCorpus
	}
	return nil
}

// ValidateTargets checks that at least one URL was given.
func (c *Config) ValidateTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return nil
}

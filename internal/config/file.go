package config

import "time"

// File represents the structure of the .malurl configuration file.
// Unset keys leave the corresponding Config value unchanged.
type File struct {
	Corpus      *string        `yaml:"corpus,omitempty"`
	URLColumn   *string        `yaml:"urlColumn,omitempty"`
	LabelColumn *string        `yaml:"labelColumn,omitempty"`
	Sheet       *string        `yaml:"sheet,omitempty"`
	TestRatio   *float64       `yaml:"testRatio,omitempty"`
	Seed        *uint64        `yaml:"seed,omitempty"`
	Fetch       FetchSection   `yaml:"fetch,omitempty"`
	History     HistorySection `yaml:"history,omitempty"`
}

// FetchSection holds page retrieval settings.
type FetchSection struct {
	Timeout     *time.Duration `yaml:"timeout,omitempty"`
	Concurrency *int           `yaml:"concurrency,omitempty"`
	RateLimit   *float64       `yaml:"rateLimit,omitempty"`
	RateBurst   *int           `yaml:"rateBurst,omitempty"`
	MaxBodySize *int64         `yaml:"maxBodySize,omitempty"`
	UserAgent   *string        `yaml:"userAgent,omitempty"`
	Proxy       *string        `yaml:"proxy,omitempty"`
	SkipContent *bool          `yaml:"skipContent,omitempty"`
}

// HistorySection holds history database settings.
type HistorySection struct {
	Enabled *bool   `yaml:"enabled,omitempty"`
	DBDir   *string `yaml:"dbDir,omitempty"`
}

// Apply copies every set value of f into cfg.
func (f *File) Apply(cfg *Config) {
	setString(&cfg.CorpusPath, f.Corpus)
	setString(&cfg.URLColumn, f.URLColumn)
	setString(&cfg.LabelColumn, f.LabelColumn)
	setString(&cfg.Sheet, f.Sheet)
	set(&cfg.TestRatio, f.TestRatio)
	set(&cfg.Seed, f.Seed)

	set(&cfg.Timeout, f.Fetch.Timeout)
	set(&cfg.Concurrency, f.Fetch.Concurrency)
	set(&cfg.RateLimit, f.Fetch.RateLimit)
	set(&cfg.RateBurst, f.Fetch.RateBurst)
	set(&cfg.MaxBodySize, f.Fetch.MaxBodySize)
	setString(&cfg.UserAgent, f.Fetch.UserAgent)
	setString(&cfg.ProxyAddress, f.Fetch.Proxy)
	set(&cfg.SkipContent, f.Fetch.SkipContent)

	set(&cfg.SaveToDB, f.History.Enabled)
	setString(&cfg.DBDir, f.History.DBDir)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

// Package config provides configuration structures and utilities for malurl.
// It defines the corpus, fetch, history and report settings and merges them
// from defaults, the .malurl YAML file, .env files and MALURL_* variables.
package config

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "MALURL_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc over the process environment, falling back
// to the given .env files (missing files are ignored). Process variables win
// over file values; earlier files win over later ones.
func EnvLookup(files ...string) (LookupFunc, error) {
	fileVars := make(map[string]string)
	for i := len(files) - 1; i >= 0; i-- {
		vars, err := godotenv.Read(files[i])
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", files[i], err)
		}
		for k, v := range vars {
			fileVars[k] = v
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// MapLookup returns a LookupFunc over a fixed map.
func MapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// ApplyEnv overrides cfg with MALURL_* variables.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"CORPUS":       &cfg.CorpusPath,
		"URL_COLUMN":   &cfg.URLColumn,
		"LABEL_COLUMN": &cfg.LabelColumn,
		"SHEET":        &cfg.Sheet,
		"USER_AGENT":   &cfg.UserAgent,
		"PROXY":        &cfg.ProxyAddress,
		"DB_DIR":       &cfg.DBDir,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	var errs []error
	parse := func(name string, fn func(string) error) {
		if v, ok := get(name); ok {
			if err := fn(v); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q: %w", ErrInvalidEnv, EnvPrefix, name, v, err))
			}
		}
	}

	parse("TIMEOUT", func(v string) (err error) {
		cfg.Timeout, err = time.ParseDuration(v)
		return err
	})
	parse("CONCURRENCY", func(v string) (err error) {
		cfg.Concurrency, err = strconv.Atoi(v)
		return err
	})
	parse("RATE_LIMIT", func(v string) (err error) {
		cfg.RateLimit, err = strconv.ParseFloat(v, 64)
		return err
	})
	parse("RATE_BURST", func(v string) (err error) {
		cfg.RateBurst, err = strconv.Atoi(v)
		return err
	})
	parse("MAX_BODY_SIZE", func(v string) (err error) {
		cfg.MaxBodySize, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("TEST_RATIO", func(v string) (err error) {
		cfg.TestRatio, err = strconv.ParseFloat(v, 64)
		return err
	})
	parse("SEED", func(v string) (err error) {
		cfg.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	})
	parse("SKIP_CONTENT", func(v string) (err error) {
		cfg.SkipContent, err = strconv.ParseBool(v)
		return err
	})
	parse("HISTORY", func(v string) (err error) {
		cfg.SaveToDB, err = strconv.ParseBool(v)
		return err
	})

	return errors.Join(errs...)
}

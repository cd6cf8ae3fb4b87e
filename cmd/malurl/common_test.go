package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/config"
	"github.com/nao1215/malurl/internal/report"
)

// parsedSubcommand returns a subcommand of a fresh root with args parsed.
func parsedSubcommand(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()

	root := NewRootCmd()
	cmd, _, err := root.Find([]string{name})
	if err != nil {
		t.Fatalf("Find(%q) error = %v", name, err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".malurl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("config file overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "corpus: data.csv\nfetch:\n  concurrency: 3\n  timeout: 2s\n")
		cmd := parsedSubcommand(t, "classify", "--config", path)

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.CorpusPath != "data.csv" || cfg.Concurrency != 3 || cfg.Timeout != 2*time.Second {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.URLColumn != config.DefaultURLColumn {
			t.Errorf("URLColumn = %q, want default", cfg.URLColumn)
		}
		if len(cfg.Targets) != 1 {
			t.Errorf("Targets = %v", cfg.Targets)
		}
	})

	t.Run("changed flags override config file", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "corpus: data.csv\nfetch:\n  concurrency: 3\n")
		cmd := parsedSubcommand(t, "classify",
			"--config", path,
			"--concurrency", "7",
			"--corpus", "other.xlsx",
			"--skip-content",
			"--no-save",
			"-j",
			"-v",
		)

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.Concurrency != 7 || cfg.CorpusPath != "other.xlsx" {
			t.Errorf("flags not applied: concurrency=%d corpus=%q", cfg.Concurrency, cfg.CorpusPath)
		}
		if !cfg.SkipContent || cfg.SaveToDB || !cfg.JSONReport || !cfg.Verbose {
			t.Errorf("bool flags not applied: %+v", cfg)
		}
	})

	t.Run("unchanged flags keep config file values", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "fetch:\n  userAgent: custom-agent/1.0\n")
		cmd := parsedSubcommand(t, "features", "--config", path)

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.UserAgent != "custom-agent/1.0" {
			t.Errorf("UserAgent = %q", cfg.UserAgent)
		}
	})

	t.Run("evaluate split flags", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "seed: 1\n")
		cmd := parsedSubcommand(t, "evaluate", "--config", path, "--test-ratio", "0.3", "--seed", "9")

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.TestRatio != 0.3 || cfg.Seed != 9 {
			t.Errorf("TestRatio/Seed = %v/%d", cfg.TestRatio, cfg.Seed)
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := parsedSubcommand(t, "classify", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := buildConfig(cmd, nil)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("err = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "fetch: [unbalanced\n")
		cmd := parsedSubcommand(t, "classify", "--config", path)
		if _, err := buildConfig(cmd, nil); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	progress := newProgressPrinter(&buf)
	progress(1, 2)
	progress(2, 2)

	output := buf.String()
	if !strings.Contains(output, "\rFetching pages: 1/2") || !strings.HasSuffix(output, "2/2\n") {
		t.Errorf("unexpected progress output: %q", output)
	}
}

func TestWriteReportToFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MarkdownReport = true
	cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "history.md")

	cmd := NewHistoryCmd()
	if err := writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteHistory(nil) }); err != nil {
		t.Fatalf("writeReport() error = %v", err)
	}

	data, err := os.ReadFile(cfg.ReportFile)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "# malurl History") {
		t.Errorf("unexpected report: %s", data)
	}
}

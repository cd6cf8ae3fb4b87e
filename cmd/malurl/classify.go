package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/config"
	"github.com/nao1215/malurl/internal/corpus"
	"github.com/nao1215/malurl/internal/fetch"
	"github.com/nao1215/malurl/internal/report"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [url...]",
		Short: "Classify URLs as malicious or benign",
		Long: `Classify trains a model on the corpus and predicts a label for every URL.

URLs are taken from the arguments and from --list (one URL per line, blank
lines and lines starting with # are ignored). Results keep the input order.
A URL whose page cannot be fetched is still classified, on its tokens only.

Examples:
  # Classify two URLs
  malurl classify --corpus urls.csv https://example.com http://login-verify.example.net/

  # Classify a list of URLs without fetching pages
  malurl classify --corpus urls.xlsx --list targets.txt --skip-content

  # Markdown report written to a file
  malurl classify --corpus urls.csv -m -o report.md https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runClassifyCmd,
	}

	cmd.Flags().StringP("list", "l", "",
		"File with one URL per line")

	addCorpusFlags(cmd)
	addFetchFlags(cmd)
	addReportFlags(cmd)
	addHistoryFlags(cmd, true)

	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return err
	}
	if listPath != "" {
		urls, err := readURLList(listPath)
		if err != nil {
			return err
		}
		cfg.Targets = append(cfg.Targets, urls...)
	}

	if err := cfg.ValidateTargets(); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	return runClassify(ctx, cmd, cfg, logger)
}

// runClassify trains the model and classifies cfg.Targets.
func runClassify(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		if !fetch.IsValidURL(target) {
			logger.Warn("URL is not fetchable, classifying on tokens only", "url", target)
		}
	}

	engine, _, err := prepareEngine(cmd, cfg, logger)
	if err != nil {
		return err
	}

	trained, err := trainFromCorpus(ctx, cfg, engine, logger)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	predictions, err := engine.Classify(ctx, trained, cfg.Targets)
	if err != nil {
		return fmt.Errorf("failed to classify: %w", err)
	}

	run := newRun("classify", startedAt, trained, predictions)
	if err := saveRun(ctx, cfg, run, logger); err != nil {
		logger.Error("failed to record run", "error", err)
	}

	return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteRun(run) })
}

// readURLList reads a URL list file.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	urls, err := corpus.ReadURLList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list %s: %w", path, err)
	}
	return urls, nil
}

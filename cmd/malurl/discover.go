package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/report"
)

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover <page-url>",
		Short: "Classify every link found on a page",
		Long: `Discover fetches a page, collects the absolute http(s) targets of its
<a href> links and classifies each of them.

Relative links are resolved against the page URL, fragments are dropped and
duplicates are classified once. With --same-site only links on the page's
registrable domain (eTLD+1) are kept.

Examples:
  # Classify every link of a page
  malurl discover --corpus urls.csv https://example.com/downloads

  # Only links on the same site, JSON output
  malurl discover --corpus urls.csv --same-site -j https://example.com/`,
		Args: cobra.ExactArgs(1),
		RunE: runDiscoverCmd,
	}

	cmd.Flags().Bool("same-site", false,
		"Keep only links on the page's registrable domain")

	addCorpusFlags(cmd)
	addFetchFlags(cmd)
	addReportFlags(cmd)
	addHistoryFlags(cmd, true)

	return cmd
}

// runDiscoverCmd executes the discover command.
func runDiscoverCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	pageURL := args[0]

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	if err := cfg.ValidateTraining(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Link discovery needs the page even when content features are skipped.
	client, err := newFetchClient(cfg, logger)
	if err != nil {
		return err
	}

	links, err := client.Links(ctx, pageURL, cfg.SameSite)
	if err != nil {
		return fmt.Errorf("failed to collect links from %s: %w", pageURL, err)
	}
	logger.Info("links discovered", "page", pageURL, "links", len(links), "same_site", cfg.SameSite)
	cfg.Targets = links

	engineClient := client
	if cfg.SkipContent {
		engineClient = nil
	}
	engine := newEngine(cmd, cfg, engineClient, logger)

	trained, err := trainFromCorpus(ctx, cfg, engine, logger)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	predictions, err := engine.Classify(ctx, trained, links)
	if err != nil {
		return fmt.Errorf("failed to classify: %w", err)
	}

	run := newRun("discover", startedAt, trained, predictions)
	run.Source = pageURL
	if err := saveRun(ctx, cfg, run, logger); err != nil {
		logger.Error("failed to record run", "error", err)
	}

	return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteRun(run) })
}

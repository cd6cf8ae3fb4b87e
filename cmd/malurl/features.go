package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/content"
	"github.com/nao1215/malurl/internal/fetch"
	"github.com/nao1215/malurl/internal/model"
	"github.com/nao1215/malurl/internal/report"
)

// NewFeaturesCmd creates the features command.
func NewFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features <url>",
		Short: "Show the content features of a page",
		Long: `Features fetches one page and prints its eleven content features.

The classifier column is the vector used for training and prediction: counts
of script blocks containing each call pattern. The page-wide column counts
every occurrence anywhere in the markup and is shown for comparison only.

Examples:
  malurl features https://example.com/
  malurl features -j http://suspicious.example.net/landing`,
		Args: cobra.ExactArgs(1),
		RunE: runFeaturesCmd,
	}

	addFetchFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runFeaturesCmd executes the features command.
func runFeaturesCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	target := args[0]
	if !fetch.IsValidURL(target) {
		return fmt.Errorf("%w: %s", fetch.ErrInvalidURL, target)
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	client, err := newFetchClient(cfg, logger)
	if err != nil {
		return err
	}

	result := &report.FeatureReport{URL: target}
	markup, err := client.Fetch(ctx, target)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		logger.Warn("page fetch failed", "url", target, "error", err)
		result.FetchError = err.Error()
	default:
		result.Features = content.ExtractMarkup(markup)
		doc, err := content.ParseDocument(markup)
		if err != nil {
			logger.Warn("page could not be parsed", "url", target, "error", err)
		}
		result.Raw = rawCounts(markup, doc)
	}

	return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteFeatures(result) })
}

// rawCounts avoids passing a typed nil document to content.RawCounts.
func rawCounts(markup string, doc *content.HTMLDocument) model.ContentFeatures {
	if doc == nil {
		return content.RawCounts(markup, nil)
	}
	return content.RawCounts(markup, doc)
}

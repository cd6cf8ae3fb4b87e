package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/database"
	"github.com/nao1215/malurl/internal/model"
	"github.com/nao1215/malurl/internal/report"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// errConflictingHistoryFilters is returned when --run and --url are combined.
var errConflictingHistoryFilters = errors.New("--run and --url cannot be used together")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous classification runs",
		Long: `History lists the classify and discover runs recorded in the history
database, newest first.

Use --run to print every prediction of one run, or --url to see how a
single URL was classified over time.

Examples:
  # The last 20 runs
  malurl history

  # Every prediction of one run, as Markdown
  malurl history --run 6b0e7c5e-3f5d-4c1a-9d8e-2f1a0b7c9d21 -m

  # Past verdicts for a URL
  malurl history --url http://login-verify.example.net/`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int("limit", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("run", "",
		"Show the predictions of one run")
	cmd.Flags().String("url", "",
		"Show past verdicts for one URL")

	addReportFlags(cmd)
	addHistoryFlags(cmd, false)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	url, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	if runID != "" && url != "" {
		return errConflictingHistoryFilters
	}

	setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no history recorded yet: %w", err)
	}
	defer db.Close()

	switch {
	case runID != "":
		run, err := db.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteRun(run) })

	case url != "":
		verdicts, err := db.URLHistory(ctx, url)
		if err != nil {
			return err
		}
		run := verdictRun(url, verdicts)
		return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteRun(run) })

	default:
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteHistory(runs) })
	}
}

// verdictRun presents the past verdicts of one URL as a run, newest first.
func verdictRun(url string, verdicts []database.URLVerdict) *model.ClassificationRun {
	run := model.NewClassificationRun("", "history")
	run.Source = url
	for _, v := range verdicts {
		run.Predictions = append(run.Predictions, v.Prediction)
	}
	if len(verdicts) > 0 {
		run.ID = verdicts[0].RunID
		run.StartedAt = verdicts[0].StartedAt
	}
	return run
}

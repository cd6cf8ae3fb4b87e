package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/config"
	"github.com/nao1215/malurl/internal/corpus"
	"github.com/nao1215/malurl/internal/report"
)

// errEmptyTestSet is returned when the split leaves nothing to evaluate.
var errEmptyTestSet = errors.New("test split is empty: increase --test-ratio")

// NewEvaluateCmd creates the evaluate command.
func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure classifier accuracy on a held-out split of the corpus",
		Long: `Evaluate shuffles the corpus with a fixed seed, trains on the training part
and reports precision, recall, F1 and support per class, overall accuracy
and the confusion matrix on the held-out part.

The same seed and ratio always produce the same split.

Examples:
  # 80/20 split with the default seed
  malurl evaluate --corpus urls.csv

  # 30% held out, different seed, tokens only
  malurl evaluate --corpus urls.csv --test-ratio 0.3 --seed 7 --skip-content`,
		Args: cobra.NoArgs,
		RunE: runEvaluateCmd,
	}

	cmd.Flags().Float64("test-ratio", config.DefaultTestRatio,
		"Share of the corpus held out for testing, in [0, 1)")
	cmd.Flags().Uint64("seed", config.DefaultSeed,
		"Seed of the deterministic train/test shuffle")

	addCorpusFlags(cmd)
	addFetchFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runEvaluateCmd executes the evaluate command.
func runEvaluateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	engine, _, err := prepareEngine(cmd, cfg, logger)
	if err != nil {
		return err
	}

	records, err := loadCorpus(cfg, logger)
	if err != nil {
		return err
	}

	train, test, err := corpus.Split(records, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return fmt.Errorf("failed to split corpus: %w", err)
	}
	if len(test) == 0 {
		return errEmptyTestSet
	}
	logger.Info("corpus split", "train", len(train), "test", len(test), "seed", cfg.Seed)

	trained, err := engine.Train(ctx, train)
	if err != nil {
		return fmt.Errorf("failed to train model: %w", err)
	}

	metrics, _, err := engine.Evaluate(ctx, trained, test)
	if err != nil {
		return fmt.Errorf("failed to evaluate: %w", err)
	}

	result := &report.EvaluationReport{
		Corpus:         cfg.CorpusPath,
		TrainRows:      len(train),
		TestRows:       len(test),
		VocabularySize: trained.Vocabulary.Size(),
		Metrics:        metrics,
	}
	return writeReport(cmd, cfg, func(w report.Writer) (int, error) { return w.WriteEvaluation(result) })
}

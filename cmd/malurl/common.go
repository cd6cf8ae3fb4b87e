package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/malurl/internal/config"
	"github.com/nao1215/malurl/internal/corpus"
	"github.com/nao1215/malurl/internal/database"
	"github.com/nao1215/malurl/internal/fetch"
	"github.com/nao1215/malurl/internal/log"
	"github.com/nao1215/malurl/internal/model"
	"github.com/nao1215/malurl/internal/pipeline"
	"github.com/nao1215/malurl/internal/report"
)

// envFile is the dotenv file read from the current directory.
const envFile = ".env"

// addCorpusFlags registers the training corpus flags.
func addCorpusFlags(cmd *cobra.Command) {
	cmd.Flags().String("corpus", "",
		"Labeled training corpus (.csv or .xlsx)")
	cmd.Flags().String("url-column", config.DefaultURLColumn,
		"Corpus header of the URL column")
	cmd.Flags().String("label-column", config.DefaultLabelColumn,
		"Corpus header of the label column (0/1, benign/malicious, good/bad)")
	cmd.Flags().String("sheet", "",
		"XLSX sheet name (default: first sheet)")
}

// addFetchFlags registers the page retrieval flags.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of pages fetched at once")
	cmd.Flags().Float64("rate-limit", 0,
		"Maximum requests per second (0 disables the limit)")
	cmd.Flags().Int("rate-burst", config.DefaultRateBurst,
		"Burst size of the rate limiter")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with page fetches")
	cmd.Flags().String("proxy", "",
		"Route fetches through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("skip-content", false,
		"Do not fetch pages; classify on URL tokens only")
}

// addReportFlags registers the report output flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// addHistoryFlags registers the history database flags.
func addHistoryFlags(cmd *cobra.Command, withNoSave bool) {
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	if withNoSave {
		cmd.Flags().Bool("no-save", false,
			"Do not record this run in the history database")
	}
}

// buildConfig creates a Config from defaults, the config file, the
// environment and the command flags, each overriding the previous one.
// Only flags the user actually set override earlier sources.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := getPersistentString(cmd, "config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	lookup, err := config.EnvLookup(envFile)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getPersistentBool(cmd, "verbose")
	cfg.LogJSON = getPersistentBool(cmd, "log-json")
	cfg.Targets = args

	return cfg, nil
}

// applyFlags copies every changed flag into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	strs := map[string]*string{
		"corpus":       &cfg.CorpusPath,
		"url-column":   &cfg.URLColumn,
		"label-column": &cfg.LabelColumn,
		"sheet":        &cfg.Sheet,
		"user-agent":   &cfg.UserAgent,
		"proxy":        &cfg.ProxyAddress,
		"output":       &cfg.ReportFile,
		"db-dir":       &cfg.DBDir,
	}
	for name, dst := range strs {
		if changed(name) {
			v, err := flags.GetString(name)
			collect(err)
			*dst = v
		}
	}

	bools := map[string]*bool{
		"skip-content": &cfg.SkipContent,
		"same-site":    &cfg.SameSite,
		"json":         &cfg.JSONReport,
		"markdown":     &cfg.MarkdownReport,
	}
	for name, dst := range bools {
		if changed(name) {
			v, err := flags.GetBool(name)
			collect(err)
			*dst = v
		}
	}

	if changed("no-save") {
		noSave, err := flags.GetBool("no-save")
		collect(err)
		cfg.SaveToDB = !noSave
	}

	if changed("timeout") {
		v, err := flags.GetDuration("timeout")
		collect(err)
		cfg.Timeout = v
	}
	if changed("concurrency") {
		v, err := flags.GetInt("concurrency")
		collect(err)
		cfg.Concurrency = v
	}
	if changed("rate-limit") {
		v, err := flags.GetFloat64("rate-limit")
		collect(err)
		cfg.RateLimit = v
	}
	if changed("rate-burst") {
		v, err := flags.GetInt("rate-burst")
		collect(err)
		cfg.RateBurst = v
	}
	if changed("max-body-size") {
		v, err := flags.GetInt64("max-body-size")
		collect(err)
		cfg.MaxBodySize = v
	}
	if changed("test-ratio") {
		v, err := flags.GetFloat64("test-ratio")
		collect(err)
		cfg.TestRatio = v
	}
	if changed("seed") {
		v, err := flags.GetUint64("seed")
		collect(err)
		cfg.Seed = v
	}

	return errors.Join(errs...)
}

// getPersistentBool retrieves a root flag from the command or its parent.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getPersistentString retrieves a root flag from the command or its parent.
func getPersistentString(cmd *cobra.Command, name string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return cmd.Root().PersistentFlags().GetString(name)
	}
	return v, nil
}

// setupLogger creates the secure structured logger and installs it as default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	var logger *slog.Logger
	if cfg.LogJSON {
		logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	} else {
		logger = log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newFetchClient creates the page fetcher from cfg.
func newFetchClient(cfg *config.Config, logger *slog.Logger) (*fetch.Client, error) {
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithLogger(logger),
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, fetch.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetch.WithProxy(cfg.ProxyAddress))
	}

	client, err := fetch.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch client: %w", err)
	}
	return client, nil
}

// newEngine creates the training and classification engine.
// A nil client disables content retrieval.
func newEngine(cmd *cobra.Command, cfg *config.Config, client *fetch.Client, logger *slog.Logger) *pipeline.Engine {
	opts := []pipeline.EngineOption{
		pipeline.WithEngineConcurrency(cfg.Concurrency),
		pipeline.WithSkipContent(cfg.SkipContent),
		pipeline.WithEngineLogger(logger),
	}
	if !cfg.LogJSON {
		opts = append(opts, pipeline.WithProgress(newProgressPrinter(cmd.ErrOrStderr())))
	}

	if client == nil {
		return pipeline.NewEngine(nil, opts...)
	}
	return pipeline.NewEngine(client, opts...)
}

// newProgressPrinter returns a progress callback that redraws one line.
func newProgressPrinter(w io.Writer) func(done, total int) {
	var mu sync.Mutex
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(w, "\rFetching pages: %d/%d", done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

// prepareEngine validates cfg for training and builds the engine.
func prepareEngine(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*pipeline.Engine, *fetch.Client, error) {
	if err := cfg.ValidateTraining(); err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	var client *fetch.Client
	if !cfg.SkipContent {
		var err error
		client, err = newFetchClient(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
	}
	return newEngine(cmd, cfg, client, logger), client, nil
}

// loadCorpus reads the labeled training corpus.
func loadCorpus(cfg *config.Config, logger *slog.Logger) ([]model.URLRecord, error) {
	records, err := corpus.Load(cfg.CorpusPath,
		corpus.WithURLColumn(cfg.URLColumn),
		corpus.WithLabelColumn(cfg.LabelColumn),
		corpus.WithSheet(cfg.Sheet),
		corpus.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", cfg.CorpusPath, err)
	}
	logger.Info("corpus loaded", "path", cfg.CorpusPath, "rows", len(records))
	return records, nil
}

// trainFromCorpus loads the corpus and trains the model on all of it.
func trainFromCorpus(ctx context.Context, cfg *config.Config, engine *pipeline.Engine, logger *slog.Logger) (*pipeline.Trained, error) {
	records, err := loadCorpus(cfg, logger)
	if err != nil {
		return nil, err
	}
	trained, err := engine.Train(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}
	return trained, nil
}

// newReportWriter returns the writer selected by cfg.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// writeReport renders a report to the file or stdout selected by cfg.
func writeReport(cmd *cobra.Command, cfg *config.Config, write func(report.Writer) (int, error)) error {
	output := cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list the URLs a user inspected, keep them owner-readable.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if _, err := write(newReportWriter(cfg, output)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveRun records the run in the history database when enabled.
func saveRun(ctx context.Context, cfg *config.Config, run *model.ClassificationRun, logger *slog.Logger) error {
	if !cfg.SaveToDB {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("run saved to history", "run", run.ID, "db", db.Path())
	return nil
}

// newRun builds a run from predictions produced by trained.
func newRun(command string, startedAt time.Time, trained *pipeline.Trained, predictions []model.Prediction) *model.ClassificationRun {
	run := model.NewClassificationRun(database.NewRunID(), command)
	run.StartedAt = startedAt
	run.TrainingRows = trained.Rows
	run.VocabularySize = trained.Vocabulary.Size()
	run.Predictions = predictions
	return run
}

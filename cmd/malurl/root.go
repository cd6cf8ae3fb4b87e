package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for malurl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "malurl",
		Short: "Classify URLs as malicious or benign",
		Long: `malurl classifies URLs as malicious or benign with a Multinomial Naive Bayes
model trained on a labeled corpus.

Each URL is described by the TF-IDF weights of its tokens and by eleven
script features of its page (iframes, eval/escape/exec calls, window.open,
script lines). Pages are fetched concurrently; a page that cannot be fetched
contributes an all-zero content vector and the URL is classified on its
tokens alone.

The model is trained from the corpus on every run and is never persisted.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .malurl in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewDiscoverCmd())
	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewFeaturesCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

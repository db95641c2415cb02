// Package cmd implements the doculyzer CLI commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msureshc21/Doculyzer/cmd/doculyzer/app"
)

// NewRootCommand creates the root cobra command with all subcommands.
func NewRootCommand(a *app.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "doculyzer",
		Short:   "Company fact reconciliation engine",
		Version: a.Version(),
		Long: `Doculyzer reconciles candidate company attributes extracted from
documents into canonical facts with a complete audit history.

Candidates arrive from non-deterministic extractors (OCR, language models,
form parsing); the engine converges each attribute to a single active fact,
keeps every attempt in an append-only ledger, and maps arbitrary form field
labels onto known attributes for fill and explanation surfaces.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			a.ReconfigureLogger()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cfg := a.Config()
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "config file (default is $HOME/.doculyzer.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&cfg.Format, "output", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&cfg.DatabasePath, "database", cfg.DatabasePath, "path to the SQLite fact database")
	rootCmd.PersistentFlags().StringVar(&cfg.AliasTableFile, "aliases", cfg.AliasTableFile, "path to a YAML field alias table")

	rootCmd.AddCommand(
		newIngestCommand(a),
		newFactsCommand(a),
		newFillCommand(a),
		newVersionCommand(a),
	)
	return rootCmd
}

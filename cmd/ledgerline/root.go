package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand creates the root CLI command with all subcommands registered.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerline",
		Short: "Bank statement import and normalization pipeline",
		Long: `ledgerline ingests bank statement exports (CSV, TSV, Excel, JSON, text,
PDF), normalizes them into canonical transactions, deduplicates them by
fingerprint and stores them categorized in Postgres.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReclassifyCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeehub/ledgerline/internal/ingest/service"
)

func newImportCommand() *cobra.Command {
	var userID string
	var password string
	var currency string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement file",
		Long: `Import parses a statement export, normalizes its rows into canonical
transactions, skips duplicates and zero-amount rows, categorizes the rest
and stores them as one batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			return runImport(cmd, uid, filepath.Base(args[0]), data, password, currency)
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "owner of the imported transactions (required)")
	_ = cmd.MarkFlagRequired("user-id")
	cmd.Flags().StringVar(&password, "password", "", "password for protected Excel files")
	cmd.Flags().StringVar(&currency, "currency", "", "currency for rows without one (default from config)")

	return cmd
}

func runImport(cmd *cobra.Command, userID uuid.UUID, fileName string, data []byte, password, currency string) error {
	ctx := cmd.Context()

	deps, err := InitDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	if currency != "" {
		deps.SetDefaultCurrency(currency)
	}

	req := service.ImportRequest{
		UserID:   userID,
		FileName: fileName,
		Data:     data,
		Password: password,
		OnProgress: func(percent int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rimporting... %3d%%", percent)
		},
	}

	summary, err := deps.Service.ImportFile(ctx, req)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Imported %s (batch %s)\n  rows:        %d\n  inserted:    %d\n  duplicates:  %d\n  zero amount: %d\n  no date:     %d\n",
		summary.FileName, summary.BatchID,
		summary.RowsTotal, summary.Inserted,
		summary.SkippedDuplicates, summary.SkippedZeroAmount, summary.SkippedNoDate,
	)
	return nil
}

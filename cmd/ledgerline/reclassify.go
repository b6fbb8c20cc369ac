package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newReclassifyCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "reclassify <transaction-id>",
		Short: "Manually change a transaction's category",
		Long: `Reclassify overrides the category of a stored transaction. Moving a
transaction into or out of Income also flips its amount sign and type;
the fingerprint stays as imported so dedup keeps recognizing the row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id: %w", err)
			}
			return runReclassify(cmd, txID, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "new category (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runReclassify(cmd *cobra.Command, txID uuid.UUID, category string) error {
	ctx := cmd.Context()

	deps, err := InitDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	tx, err := deps.Store.GetTransaction(ctx, txID)
	if err != nil {
		return fmt.Errorf("looking up transaction: %w", err)
	}

	oldCategory := tx.Category
	if err := deps.Service.Reclassify(ctx, tx, category); err != nil {
		return fmt.Errorf("reclassify failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reclassified %s: %s -> %s (amount %s, type %s)\n",
		tx.ID, oldCategory, tx.Category, tx.Amount.StringFixed(2), tx.Type)
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rupeehub/ledgerline/internal/ingest/repository"
)

// IncomeCategory is the category whose assignment flips a transaction from
// expense to income.
const IncomeCategory = "Income"

// Reclassify applies a manual category correction. Moving a transaction
// into Income makes the amount positive; moving it out makes the amount
// negative; type always follows the new sign. The fingerprint is never
// recomputed: it identifies the original import event, not the current
// category. The correction is reported to the feedback collaborator and any
// feedback failure stays invisible to the caller.
func (s *Service) Reclassify(ctx context.Context, tx *repository.Transaction, newCategory string) error {
	wasIncome := strings.EqualFold(tx.Category, IncomeCategory)
	isIncome := strings.EqualFold(newCategory, IncomeCategory)

	switch {
	case isIncome && tx.Amount.IsNegative():
		tx.Amount = tx.Amount.Neg()
	case wasIncome && !isIncome && tx.Amount.IsPositive():
		tx.Amount = tx.Amount.Neg()
	}
	tx.Type = repository.DeriveType(tx.Amount)
	tx.Category = newCategory

	if err := s.store.UpdateCategory(ctx, tx.ID, newCategory, tx.Amount, tx.Type); err != nil {
		return fmt.Errorf("reclassify transaction %s: %w", tx.ID, err)
	}

	s.feedback.Send(ctx, map[string]string{tx.Description: newCategory})
	s.logger.Debug("transaction reclassified",
		slog.String("id", tx.ID.String()),
		slog.String("category", newCategory))
	return nil
}

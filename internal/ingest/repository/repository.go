// Package repository owns the storage-ready transaction shape and the
// persistence boundary the import pipeline hands records to.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction type tags, always consistent with the amount sign.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// DefaultStatus is carried by rows whose source had no status column.
const DefaultStatus = "completed"

// Transaction is the canonical, storage-ready form of one imported row.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Date          time.Time
	Amount        decimal.Decimal
	Currency      string
	Description   string
	Merchant      string
	Category      string
	PaymentMethod string
	Status        string
	Type          string
	Fingerprint   string
	RawData       map[string]any
}

// DeriveType returns the type tag for an amount sign.
func DeriveType(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return TypeDebit
	}
	return TypeCredit
}

// InsertReport is the store's accounting for one insert call. Inserted can
// be lower than the submitted count when the fingerprint index catches
// duplicates the client-side dedup did not know about.
type InsertReport struct {
	Inserted          int
	SkippedDuplicates int
	SkippedZeroAmount int
}

// Batch identifies one imported file.
type Batch struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	FileName    string
	ContentHash string
	CreatedAt   time.Time
}

// Store is the persistence collaborator.
type Store interface {
	// CreateBatch records the file identity and returns the batch id.
	CreateBatch(ctx context.Context, userID uuid.UUID, fileName, contentHash string) (uuid.UUID, error)
	// KnownFingerprints returns every fingerprint already stored for a user.
	KnownFingerprints(ctx context.Context, userID uuid.UUID) ([]string, error)
	// InsertTransactions stores a chunk and reports server-side counts.
	InsertTransactions(ctx context.Context, batchID uuid.UUID, txs []Transaction) (InsertReport, error)
	// UpdateCategory applies a manual reclassification. Amount and type are
	// written together; the fingerprint column is left untouched.
	UpdateCategory(ctx context.Context, id uuid.UUID, category string, amount decimal.Decimal, txType string) error
	// ListTransactions returns a user's transactions, newest first.
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]Transaction, error)
}

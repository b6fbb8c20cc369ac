package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DB is the subset of pgxpool.Pool the store needs. Kept narrow so tests
// can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore is the Postgres persistence collaborator. Duplicate protection is
// double-layered: the pipeline dedups client-side, and the unique
// fingerprint index catches anything that slipped past it.
type PGStore struct {
	db DB
}

// NewPGStore wraps a pgx pool (or mock) in the Store interface.
func NewPGStore(db DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateBatch(ctx context.Context, userID uuid.UUID, fileName, contentHash string) (uuid.UUID, error) {
	query := `
		INSERT INTO import_batches (user_id, file_name, content_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, query, userID, fileName, contentHash).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("create import batch: %w", err)
	}
	return id, nil
}

func (s *PGStore) KnownFingerprints(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `SELECT fingerprint FROM transactions WHERE user_id = $1`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load known fingerprints: %w", err)
	}
	defer rows.Close()

	var fps []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		fps = append(fps, fp)
	}
	return fps, rows.Err()
}

func (s *PGStore) InsertTransactions(ctx context.Context, batchID uuid.UUID, txs []Transaction) (InsertReport, error) {
	query := `
		INSERT INTO transactions (
			id, user_id, batch_id, posted_at, amount, currency, description,
			merchant_name, category, payment_method, status, type, fingerprint, raw_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (fingerprint) DO NOTHING
	`

	var report InsertReport
	for _, tx := range txs {
		if tx.Amount.IsZero() {
			report.SkippedZeroAmount++
			continue
		}
		raw, err := json.Marshal(tx.RawData)
		if err != nil {
			return report, fmt.Errorf("marshal raw data: %w", err)
		}
		id := tx.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		tag, err := s.db.Exec(ctx, query,
			id, tx.UserID, batchID, tx.Date, tx.Amount, tx.Currency,
			tx.Description, tx.Merchant, tx.Category, tx.PaymentMethod,
			tx.Status, tx.Type, tx.Fingerprint, raw,
		)
		if err != nil {
			return report, fmt.Errorf("insert transaction: %w", err)
		}
		if tag.RowsAffected() == 1 {
			report.Inserted++
		} else {
			report.SkippedDuplicates++
		}
	}
	return report, nil
}

func (s *PGStore) UpdateCategory(ctx context.Context, id uuid.UUID, category string, amount decimal.Decimal, txType string) error {
	query := `
		UPDATE transactions
		SET category = $2, amount = $3, type = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query, id, category, amount, txType)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetTransaction fetches a single transaction by id. Returns pgx.ErrNoRows
// when the id is unknown.
func (s *PGStore) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `
		SELECT id, user_id, posted_at, amount, currency, description,
			merchant_name, category, payment_method, status, type, fingerprint
		FROM transactions
		WHERE id = $1
	`

	var tx Transaction
	if err := s.db.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Amount, &tx.Currency,
		&tx.Description, &tx.Merchant, &tx.Category, &tx.PaymentMethod,
		&tx.Status, &tx.Type, &tx.Fingerprint,
	); err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

func (s *PGStore) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]Transaction, error) {
	query := `
		SELECT id, user_id, posted_at, amount, currency, description,
			merchant_name, category, payment_method, status, type, fingerprint
		FROM transactions
		WHERE user_id = $1
		ORDER BY posted_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Date, &tx.Amount, &tx.Currency,
			&tx.Description, &tx.Merchant, &tx.Category, &tx.PaymentMethod,
			&tx.Status, &tx.Type, &tx.Fingerprint,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rupeehub/ledgerline/internal/ingest/decrypt"
	"github.com/rupeehub/ledgerline/internal/ingest/repository"
)

// memStore is an in-memory Store with server-side fingerprint dedup, enough
// to exercise the whole import path.
type memStore struct {
	mu       sync.Mutex
	fps      map[string]struct{}
	inserted []repository.Transaction
	updates  map[uuid.UUID]string
}

func newMemStore() *memStore {
	return &memStore{fps: make(map[string]struct{}), updates: make(map[uuid.UUID]string)}
}

func (s *memStore) CreateBatch(context.Context, uuid.UUID, string, string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *memStore) KnownFingerprints(context.Context, uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.fps))
	for fp := range s.fps {
		out = append(out, fp)
	}
	return out, nil
}

func (s *memStore) InsertTransactions(_ context.Context, _ uuid.UUID, txs []repository.Transaction) (repository.InsertReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var report repository.InsertReport
	for _, tx := range txs {
		if tx.Amount.IsZero() {
			report.SkippedZeroAmount++
			continue
		}
		if _, dup := s.fps[tx.Fingerprint]; dup {
			report.SkippedDuplicates++
			continue
		}
		s.fps[tx.Fingerprint] = struct{}{}
		s.inserted = append(s.inserted, tx)
		report.Inserted++
	}
	return report, nil
}

func (s *memStore) UpdateCategory(_ context.Context, id uuid.UUID, category string, _ decimal.Decimal, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = category
	return nil
}

func (s *memStore) ListTransactions(context.Context, uuid.UUID, int) ([]repository.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Transaction(nil), s.inserted...), nil
}

type passthroughDecrypter struct {
	called bool
	err    error
}

func (d *passthroughDecrypter) Decrypt(_ context.Context, _ string, data []byte, _ string) ([]byte, error) {
	d.called = true
	if d.err != nil {
		return nil, d.err
	}
	return data, nil
}

type stubClassifier struct {
	result map[string]string
	err    error
}

func (c stubClassifier) Classify(context.Context, []string) (map[string]string, error) {
	return c.result, c.err
}

type captureFeedback struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (f *captureFeedback) Send(_ context.Context, corrections map[string]string) {
	f.mu.Lock()
	f.sent = append(f.sent, corrections)
	f.mu.Unlock()
}

func newTestService(store repository.Store, remote stubClassifier) (*Service, *captureFeedback) {
	fb := &captureFeedback{}
	svc := New(store, &passthroughDecrypter{}, remote, fb,
		slog.New(slog.DiscardHandler), nil, Config{DefaultCurrency: "INR"})
	return svc, fb
}

const sampleCSV = `Date,Description,Amount,Payment Method
15/02/2024,UPI/DR/931523643407/SWIGGY/SBIN/x y/Paym,-120.00,UPI
16/02/2024,Salary Credit,50000,NEFT
17/02/2024,Reversed charge,0,Card
`

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first import inserts all valid rows", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store, stubClassifier{result: map[string]string{}})

		got, err := svc.ImportFile(ctx, ImportRequest{
			UserID: userID, FileName: "statement.csv", Data: []byte(sampleCSV),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, got.RowsTotal)
		assert.Equal(t, 2, got.Inserted)
		assert.Equal(t, 1, got.SkippedZeroAmount)
		assert.Zero(t, got.SkippedDuplicates)
		assert.NotEmpty(t, got.ContentHash)
	})

	t.Run("re-import is idempotent", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store, stubClassifier{result: map[string]string{}})

		req := ImportRequest{UserID: userID, FileName: "statement.csv", Data: []byte(sampleCSV)}
		first, err := svc.ImportFile(ctx, req)
		require.NoError(t, err)
		require.Equal(t, 2, first.Inserted)

		second, err := svc.ImportFile(ctx, req)
		require.NoError(t, err)
		assert.Zero(t, second.Inserted)
		assert.Equal(t, 2, second.SkippedDuplicates)
	})

	t.Run("duplicate rows within one file collapse", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store, stubClassifier{result: map[string]string{}})

		data := []byte("Date,Description,Amount\n15/02/2024,Coffee,-20\n15/02/2024,Coffee,-20\n")
		got, err := svc.ImportFile(ctx, ImportRequest{UserID: userID, FileName: "s.csv", Data: data})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Inserted)
		assert.Equal(t, 1, got.SkippedDuplicates)
	})

	t.Run("dateless rows are counted, not silently lost", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store, stubClassifier{result: map[string]string{}})

		data := []byte("Date,Description,Amount\n,No date here,-5\n15/02/2024,Coffee,-20\n")
		got, err := svc.ImportFile(ctx, ImportRequest{UserID: userID, FileName: "s.csv", Data: data})
		require.NoError(t, err)
		assert.Equal(t, 1, got.SkippedNoDate)
		assert.Equal(t, 1, got.Inserted)
	})

	t.Run("empty file is an explicit error", func(t *testing.T) {
		svc, _ := newTestService(newMemStore(), stubClassifier{})

		_, err := svc.ImportFile(ctx, ImportRequest{UserID: userID, FileName: "empty.csv", Data: nil})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no rows found in empty.csv")
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		svc, _ := newTestService(newMemStore(), stubClassifier{})

		_, err := svc.ImportFile(ctx, ImportRequest{UserID: userID, FileName: "file.bin", Data: []byte{0x00, 0x01}})
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("remote categories are applied", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store, stubClassifier{result: map[string]string{
			"UPI Transfer to SWIGGY": "Food & Dining",
		}})

		_, err := svc.ImportFile(ctx, ImportRequest{UserID: userID, FileName: "s.csv", Data: []byte(sampleCSV)})
		require.NoError(t, err)

		var found bool
		for _, tx := range store.inserted {
			if tx.Description == "UPI Transfer to SWIGGY" {
				assert.Equal(t, "Food & Dining", tx.Category)
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("keyword fallback categorizes when remote fails", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store, stubClassifier{err: errors.New("service down")})

		_, err := svc.ImportFile(ctx, ImportRequest{UserID: userID, FileName: "s.csv", Data: []byte(sampleCSV)})
		require.NoError(t, err)

		for _, tx := range store.inserted {
			if tx.Description == "UPI Transfer to SWIGGY" {
				assert.Equal(t, "Food & Dining", tx.Category)
			}
		}
	})

	t.Run("password-protected spreadsheet goes through the decrypter", func(t *testing.T) {
		store := newMemStore()
		fb := &captureFeedback{}
		dec := &passthroughDecrypter{}
		svc := New(store, dec, stubClassifier{result: map[string]string{}}, fb,
			slog.New(slog.DiscardHandler), nil, Config{})

		got, err := svc.ImportFile(ctx, ImportRequest{
			UserID: userID, FileName: "protected.xlsx", Data: workbookBytes(t), Password: "pw",
		})
		require.NoError(t, err)
		assert.True(t, dec.called)
		assert.Equal(t, 1, got.Inserted)
	})

	t.Run("wrong password propagates", func(t *testing.T) {
		svc := New(newMemStore(), &passthroughDecrypter{err: decrypt.ErrBadPassword},
			stubClassifier{}, &captureFeedback{}, slog.New(slog.DiscardHandler), nil, Config{})

		_, err := svc.ImportFile(ctx, ImportRequest{
			UserID: userID, FileName: "protected.xlsx", Data: workbookBytes(t), Password: "bad",
		})
		assert.ErrorIs(t, err, decrypt.ErrBadPassword)
	})
}

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"15/02/2024", "Coffee", "-20"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReclassify(t *testing.T) {
	ctx := context.Background()

	t.Run("moving into Income flips a debit positive", func(t *testing.T) {
		store := newMemStore()
		svc, fb := newTestService(store, stubClassifier{})

		tx := &repository.Transaction{
			ID:          uuid.New(),
			Amount:      decimal.RequireFromString("-500"),
			Type:        repository.TypeDebit,
			Category:    "Shopping",
			Description: "Refund from store",
			Fingerprint: "fp1",
		}
		require.NoError(t, svc.Reclassify(ctx, tx, "Income"))

		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("500")))
		assert.Equal(t, repository.TypeCredit, tx.Type)
		assert.Equal(t, "fp1", tx.Fingerprint) // never recomputed
		assert.Equal(t, "Income", store.updates[tx.ID])
		require.Len(t, fb.sent, 1)
		assert.Equal(t, "Income", fb.sent[0]["Refund from store"])
	})

	t.Run("moving out of Income flips back negative", func(t *testing.T) {
		svc, _ := newTestService(newMemStore(), stubClassifier{})

		tx := &repository.Transaction{
			ID:       uuid.New(),
			Amount:   decimal.RequireFromString("500"),
			Type:     repository.TypeCredit,
			Category: "Income",
		}
		require.NoError(t, svc.Reclassify(ctx, tx, "Shopping"))

		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-500")))
		assert.Equal(t, repository.TypeDebit, tx.Type)
	})

	t.Run("non-income reclassification keeps the sign", func(t *testing.T) {
		svc, _ := newTestService(newMemStore(), stubClassifier{})

		tx := &repository.Transaction{
			ID:       uuid.New(),
			Amount:   decimal.RequireFromString("-120"),
			Type:     repository.TypeDebit,
			Category: "Shopping",
		}
		require.NoError(t, svc.Reclassify(ctx, tx, "Food & Dining"))

		assert.True(t, tx.Amount.IsNegative())
		assert.Equal(t, repository.TypeDebit, tx.Type)
	})
}

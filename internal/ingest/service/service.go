// Package service orchestrates a statement import end to end: detect,
// decrypt, extract, normalize, resolve narration, fingerprint, classify and
// upload, returning the aggregate accounting for the file.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rupeehub/ledgerline/internal/ingest/classify"
	"github.com/rupeehub/ledgerline/internal/ingest/decrypt"
	"github.com/rupeehub/ledgerline/internal/ingest/detector"
	"github.com/rupeehub/ledgerline/internal/ingest/extractor"
	"github.com/rupeehub/ledgerline/internal/ingest/fingerprint"
	"github.com/rupeehub/ledgerline/internal/ingest/narration"
	"github.com/rupeehub/ledgerline/internal/ingest/repository"
	"github.com/rupeehub/ledgerline/internal/ingest/rowmap"
	"github.com/rupeehub/ledgerline/internal/ingest/uploader"
	"github.com/rupeehub/ledgerline/pkg/metrics"
)

// ErrUnknownFormat means neither the extension nor the content identified
// the file kind.
var ErrUnknownFormat = errors.New("unknown file format")

// Upload progress is reported over the second half of the bar; everything
// before the first chunk upload counts as the first half.
const (
	progressBase = 50
	progressSpan = 50
)

// ImportRequest describes one file to import.
type ImportRequest struct {
	UserID   uuid.UUID
	FileName string
	Data     []byte
	// Password decrypts protected spreadsheets; empty means not protected.
	Password string
	// OnProgress, when set, receives percentages as the import advances.
	OnProgress func(percent int)
}

// ImportSummary is the aggregate accounting returned to the caller.
type ImportSummary struct {
	BatchID           uuid.UUID
	FileName          string
	ContentHash       string
	RowsTotal         int
	Inserted          int
	SkippedDuplicates int
	SkippedZeroAmount int
	SkippedNoDate     int
}

// Service wires the pipeline stages to the external collaborators.
type Service struct {
	store     repository.Store
	decrypter decrypt.Decrypter
	remote    classify.Classifier
	keyword   *classify.KeywordClassifier
	feedback  decrypt.Feedback
	resolver  *narration.Resolver
	logger    *slog.Logger
	metrics   *metrics.Metrics

	defaultCurrency string
	chunkSize       int
	concurrency     int
}

// Config carries the service knobs.
type Config struct {
	DefaultCurrency string
	ChunkSize       int
	Concurrency     int
}

// New builds the import service. Metrics may be nil.
func New(
	store repository.Store,
	decrypter decrypt.Decrypter,
	remote classify.Classifier,
	feedback decrypt.Feedback,
	logger *slog.Logger,
	m *metrics.Metrics,
	cfg Config,
) *Service {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "INR"
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = uploader.DefaultChunkSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = uploader.DefaultConcurrency
	}
	return &Service{
		store:           store,
		decrypter:       decrypter,
		remote:          remote,
		keyword:         classify.NewKeywordClassifier(),
		feedback:        feedback,
		resolver:        narration.NewResolver(),
		logger:          logger,
		metrics:         m,
		defaultCurrency: cfg.DefaultCurrency,
		chunkSize:       cfg.ChunkSize,
		concurrency:     cfg.Concurrency,
	}
}

// ImportFile runs the whole pipeline for one file. Chunks uploaded before a
// later chunk fails stay committed; the returned error then describes the
// failing chunk and the summary holds what made it in.
func (s *Service) ImportFile(ctx context.Context, req ImportRequest) (*ImportSummary, error) {
	summary, err := s.importFile(ctx, req)
	if err != nil {
		s.metrics.CountFailure()
		return summary, err
	}
	s.metrics.CountImport(summary.Inserted, summary.SkippedDuplicates,
		summary.SkippedZeroAmount, summary.SkippedNoDate)
	return summary, nil
}

func (s *Service) importFile(ctx context.Context, req ImportRequest) (*ImportSummary, error) {
	kind := detector.Detect(req.FileName)
	if kind == detector.KindUnknown {
		kind = detector.DetectContent(req.Data)
	}
	if kind == detector.KindUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, req.FileName)
	}

	data := req.Data
	if kind == detector.KindExcel && req.Password != "" {
		decrypted, err := s.decrypter.Decrypt(ctx, req.FileName, data, req.Password)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", req.FileName, err)
		}
		data = decrypted
	}

	sum := sha256.Sum256(data)
	summary := &ImportSummary{
		FileName:    req.FileName,
		ContentHash: hex.EncodeToString(sum[:]),
	}

	rawRows, err := extractor.Rows(kind, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", req.FileName, err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("no rows found in %s", req.FileName)
	}
	summary.RowsTotal = len(rawRows)

	mapped := make([]*rowmap.MappedRow, 0, len(rawRows))
	for _, raw := range rawRows {
		m, ok := rowmap.Map(raw, s.defaultCurrency)
		if !ok {
			summary.SkippedNoDate++
			continue
		}
		mapped = append(mapped, m)
	}
	rowmap.ApplyStatusSigns(mapped)

	known, err := s.store.KnownFingerprints(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load known fingerprints: %w", err)
	}
	dedup := fingerprint.NewDedup(known)

	txs := make([]repository.Transaction, 0, len(mapped))
	merchantByDesc := make(map[string]string)
	for _, m := range mapped {
		if m.Amount.IsZero() {
			summary.SkippedZeroAmount++
			continue
		}
		tx := s.canonicalize(req.UserID, m)
		if !dedup.Accept(tx.Fingerprint) {
			summary.SkippedDuplicates++
			continue
		}
		merchantByDesc[tx.Description] = tx.Merchant
		txs = append(txs, tx)
	}

	s.classifyAll(ctx, txs, merchantByDesc)

	batchID, err := s.store.CreateBatch(ctx, req.UserID, req.FileName, summary.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	summary.BatchID = batchID

	up := uploader.New[repository.Transaction](&storeSink{store: s.store}, s.logger,
		uploader.WithChunkSize[repository.Transaction](s.chunkSize),
		uploader.WithConcurrency[repository.Transaction](s.concurrency))

	result, err := up.Upload(ctx, batchID.String(), txs, progressBase, progressSpan, req.OnProgress)
	summary.Inserted = result.Inserted
	summary.SkippedDuplicates += result.SkippedDuplicates
	summary.SkippedZeroAmount += result.SkippedZeroAmount
	if err != nil {
		return summary, err
	}

	s.logger.Info("import complete",
		slog.String("file", req.FileName),
		slog.String("batch_id", batchID.String()),
		slog.Int("rows", summary.RowsTotal),
		slog.Int("inserted", summary.Inserted),
		slog.Int("skipped_duplicates", summary.SkippedDuplicates),
		slog.Int("skipped_zero_amount", summary.SkippedZeroAmount),
		slog.Int("skipped_no_date", summary.SkippedNoDate))
	return summary, nil
}

// canonicalize turns a mapped row into the storage-ready record, resolving
// narration and computing the fingerprint.
func (s *Service) canonicalize(userID uuid.UUID, m *rowmap.MappedRow) repository.Transaction {
	res := s.resolver.Resolve(m.Description)

	description := res.CleanDescription
	merchant := m.Merchant
	if merchant == "" {
		merchant = res.Merchant
	}
	method := m.PaymentMethod
	if method == "" {
		method = methodForType(res.Type)
	}
	status := m.Status
	if status == "" {
		status = repository.DefaultStatus
	}

	raw := map[string]any(m.Raw)
	if len(res.Meta) > 0 {
		meta := make(map[string]any, len(res.Meta))
		for k, v := range res.Meta {
			meta[k] = v
		}
		raw = map[string]any{"row": map[string]any(m.Raw), "parsed": meta}
	}

	fp := fingerprint.Compute(fingerprint.Fields{
		Date:          m.Date,
		Amount:        m.Amount,
		Merchant:      merchant,
		Description:   description,
		PaymentMethod: method,
		Reference:     reference(res.Meta),
	})

	return repository.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Date:          m.Date,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Description:   description,
		Merchant:      merchant,
		Category:      classify.Uncategorized,
		PaymentMethod: method,
		Status:        strings.ToLower(status),
		Type:          repository.DeriveType(m.Amount),
		Fingerprint:   fp,
		RawData:       raw,
	}
}

// classifyAll assigns categories in place. Remote first, keyword matcher on
// failure; either way the import proceeds.
func (s *Service) classifyAll(ctx context.Context, txs []repository.Transaction, merchantByDesc map[string]string) {
	if len(txs) == 0 {
		return
	}

	descriptions := make([]string, len(txs))
	for i, tx := range txs {
		descriptions[i] = tx.Description
	}

	fallback := classify.NewEnrichedKeyword(s.keyword, func(d string) string {
		return d + " " + merchantByDesc[d]
	})
	remote := countingClassifier{inner: s.remote, metrics: s.metrics}
	classifier := classify.NewFallbackClassifier(remote, fallback, s.logger)

	result, err := classifier.Classify(ctx, classify.Distinct(descriptions))
	if err != nil {
		// Both layers never error together; keep Uncategorized.
		s.logger.Warn("classification skipped", slog.String("error", err.Error()))
		return
	}

	byDesc := classify.Spread(descriptions, result)
	for i := range txs {
		if cat, ok := byDesc[txs[i].Description]; ok {
			txs[i].Category = cat
		}
	}
}

// countingClassifier bumps the fallback counter whenever the remote
// classifier errors, just before the fallback takes over.
type countingClassifier struct {
	inner   classify.Classifier
	metrics *metrics.Metrics
}

func (c countingClassifier) Classify(ctx context.Context, descriptions []string) (map[string]string, error) {
	result, err := c.inner.Classify(ctx, descriptions)
	if err != nil {
		c.metrics.CountClassifyFallback()
	}
	return result, err
}

func methodForType(t string) string {
	switch t {
	case narration.TypeUPI:
		return "UPI"
	case narration.TypePOS:
		return "Card"
	case narration.TypeATM:
		return "ATM"
	case narration.TypeINB:
		return "Internet Banking"
	case narration.TypeCashDeposit:
		return "Cash"
	case narration.TypeTransfer:
		return "Bank Transfer"
	default:
		return ""
	}
}

func reference(meta map[string]string) string {
	for _, key := range []string{"utr", "ref"} {
		if v := meta[key]; v != "" {
			return v
		}
	}
	return ""
}

// storeSink adapts the repository to the uploader's chunk interface.
type storeSink struct {
	store repository.Store
}

func (s *storeSink) UploadChunk(ctx context.Context, batchID string, rows []repository.Transaction) (uploader.ChunkResult, error) {
	id, err := uuid.Parse(batchID)
	if err != nil {
		return uploader.ChunkResult{}, fmt.Errorf("parse batch id: %w", err)
	}
	report, err := s.store.InsertTransactions(ctx, id, rows)
	if err != nil {
		return uploader.ChunkResult{}, err
	}
	return uploader.ChunkResult{
		Inserted:          report.Inserted,
		SkippedDuplicates: report.SkippedDuplicates,
		SkippedZeroAmount: report.SkippedZeroAmount,
	}, nil
}

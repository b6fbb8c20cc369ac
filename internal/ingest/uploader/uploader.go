// Package uploader ships accepted transactions to the persistence store in
// fixed-size chunks with a bounded concurrency window.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

const (
	// DefaultChunkSize is the number of rows per upload request.
	DefaultChunkSize = 2500
	// DefaultConcurrency is the number of chunk uploads in flight at once.
	DefaultConcurrency = 3
)

// ChunkResult is the store's report for one uploaded chunk. Inserted may be
// lower than the chunk size when the server deduplicates again.
type ChunkResult struct {
	Inserted          int
	SkippedDuplicates int
	SkippedZeroAmount int
}

// Sink receives one chunk of rows. Implementations are called concurrently.
type Sink[T any] interface {
	UploadChunk(ctx context.Context, batchID string, rows []T) (ChunkResult, error)
}

// ProgressFunc receives the overall percentage after each completed window.
type ProgressFunc func(percent int)

// Uploader drives chunked uploads. Progress is reported across the
// [base, base+span] range as rows complete.
type Uploader[T any] struct {
	sink        Sink[T]
	logger      *slog.Logger
	chunkSize   int
	concurrency int
}

// Option tweaks an Uploader.
type Option[T any] func(*Uploader[T])

// WithChunkSize overrides the rows-per-chunk default.
func WithChunkSize[T any](n int) Option[T] {
	return func(u *Uploader[T]) {
		if n > 0 {
			u.chunkSize = n
		}
	}
}

// WithConcurrency overrides the in-flight window size.
func WithConcurrency[T any](n int) Option[T] {
	return func(u *Uploader[T]) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

// New builds an uploader over the given sink.
func New[T any](sink Sink[T], logger *slog.Logger, opts ...Option[T]) *Uploader[T] {
	u := &Uploader[T]{
		sink:        sink,
		logger:      logger,
		chunkSize:   DefaultChunkSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload splits rows into chunks and uploads them window by window: up to
// the concurrency limit in flight, then wait for the whole window before
// starting the next. Any chunk error aborts the remaining windows; chunks
// already uploaded stay committed. Returns the summed store-side counts.
func (u *Uploader[T]) Upload(ctx context.Context, batchID string, rows []T, basePercent, spanPercent int, progress ProgressFunc) (ChunkResult, error) {
	var total ChunkResult
	if len(rows) == 0 {
		if progress != nil {
			progress(basePercent + spanPercent)
		}
		return total, nil
	}

	chunks := make([][]T, 0, (len(rows)+u.chunkSize-1)/u.chunkSize)
	for start := 0; start < len(rows); start += u.chunkSize {
		end := start + u.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}

	processed := 0
	for windowStart := 0; windowStart < len(chunks); windowStart += u.concurrency {
		windowEnd := windowStart + u.concurrency
		if windowEnd > len(chunks) {
			windowEnd = len(chunks)
		}
		window := chunks[windowStart:windowEnd]

		results := make([]ChunkResult, len(window))
		errs := make([]error, len(window))
		var wg sync.WaitGroup
		for i, chunk := range window {
			wg.Add(1)
			go func(i int, chunk []T) {
				defer wg.Done()
				results[i], errs[i] = u.sink.UploadChunk(ctx, batchID, chunk)
			}(i, chunk)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				return total, fmt.Errorf("upload chunk %d: %w", windowStart+i+1, err)
			}
		}
		for i, res := range results {
			total.Inserted += res.Inserted
			total.SkippedDuplicates += res.SkippedDuplicates
			total.SkippedZeroAmount += res.SkippedZeroAmount
			processed += len(window[i])
		}

		if progress != nil {
			frac := float64(processed) / float64(len(rows))
			progress(basePercent + int(math.Round(frac*float64(spanPercent))))
		}
		u.logger.Debug("upload window complete",
			slog.String("batch_id", batchID),
			slog.Int("processed", processed),
			slog.Int("total", len(rows)))
	}

	return total, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeehub/ledgerline/internal/ingest/repository"
	"github.com/rupeehub/ledgerline/internal/ingest/service"
	"github.com/rupeehub/ledgerline/pkg/cron"
)

const processedDirName = "processed"

func newWatchCommand() *cobra.Command {
	var userID string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and import statements as they appear",
		Long: `Watch polls a directory for statement files, imports each one and moves
it into a processed/ subdirectory. Files that fail to import keep their
place so the failure can be inspected. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}
			return runWatch(cmd, args[0], uid, interval)
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "owner of the imported transactions (required)")
	_ = cmd.MarkFlagRequired("user-id")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "poll interval")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, userID uuid.UUID, interval time.Duration) error {
	ctx := cmd.Context()

	deps, err := InitDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	processedDir := filepath.Join(dir, processedDirName)
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed directory: %w", err)
	}

	cache := service.NewTransactionCache(
		time.Duration(deps.Config.Import.CacheTTLMinutes) * time.Minute)
	scheduler := cron.NewScheduler(cache, deps.Logger)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer func() { <-scheduler.Stop().Done() }()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s every %s\n", dir, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := importPending(ctx, cmd, deps, cache, dir, processedDir, userID); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func importPending(ctx context.Context, cmd *cobra.Command, deps *Dependencies, cache *service.TransactionCache, dir, processedDir string, userID uuid.UUID) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading watch directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			deps.Logger.Warn("skipping unreadable file", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}

		summary, err := deps.Service.ImportFile(ctx, service.ImportRequest{
			UserID:   userID,
			FileName: entry.Name(),
			Data:     data,
		})
		if err != nil {
			deps.Logger.Warn("import failed, leaving file in place", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}

		if err := os.Rename(path, filepath.Join(processedDir, entry.Name())); err != nil {
			return fmt.Errorf("moving processed file: %w", err)
		}

		cache.Invalidate(userID)
		txs, err := cachedTransactions(ctx, deps, cache, userID)
		if err != nil {
			deps.Logger.Warn("refreshing transaction list failed", slog.String("error", err.Error()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d inserted, %d duplicates (%d recent transactions)\n",
			entry.Name(), summary.Inserted, summary.SkippedDuplicates, len(txs))
	}
	return nil
}

// cachedTransactions reads a user's recent transactions through the cache.
func cachedTransactions(ctx context.Context, deps *Dependencies, cache *service.TransactionCache, userID uuid.UUID) ([]repository.Transaction, error) {
	if txs, ok := cache.Get(userID); ok {
		return txs, nil
	}
	txs, err := deps.Store.ListTransactions(ctx, userID, 100)
	if err != nil {
		return nil, err
	}
	cache.Put(userID, txs)
	return txs, nil
}

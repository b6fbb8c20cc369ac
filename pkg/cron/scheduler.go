// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	cache  Sweeper
	logger *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(cache Sweeper, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:   c,
		cache:  cache,
		logger: logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Transaction cache sweep: runs every 15 minutes
	_, err := s.cron.AddFunc("*/15 * * * *", s.sweepCache)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the cache sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.sweepCache()
}

func (s *Scheduler) sweepCache() {
	removed := s.cache.Sweep()
	if removed > 0 {
		s.logger.Info("transaction cache swept",
			slog.Int("entries_removed", removed),
		)
	} else {
		s.logger.Debug("transaction cache sweep found nothing to evict")
	}
}

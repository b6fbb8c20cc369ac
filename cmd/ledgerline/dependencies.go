package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rupeehub/ledgerline/internal/ingest/classify"
	"github.com/rupeehub/ledgerline/internal/ingest/decrypt"
	"github.com/rupeehub/ledgerline/internal/ingest/repository"
	"github.com/rupeehub/ledgerline/internal/ingest/service"
	"github.com/rupeehub/ledgerline/pkg/config"
	"github.com/rupeehub/ledgerline/pkg/metrics"
)

// Dependencies holds everything a command needs wired together.
type Dependencies struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Store   *repository.PGStore
	Service *service.Service
	Metrics *metrics.Metrics

	metricsServer *http.Server
}

// InitDependencies connects to the database and builds the import service.
func InitDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
		Store:  repository.NewPGStore(pool),
	}

	if cfg.Observability.MetricsEnabled {
		registry := prometheus.NewRegistry()
		deps.Metrics = metrics.New(registry)
		deps.startMetricsServer(registry)
	}

	deps.buildService()

	logger.Info("dependencies initialized")
	return deps, nil
}

// SetDefaultCurrency rebuilds the service with a different fallback currency.
func (d *Dependencies) SetDefaultCurrency(currency string) {
	d.Config.Import.DefaultCurrency = currency
	d.buildService()
}

func (d *Dependencies) buildService() {
	cfg := d.Config
	d.Service = service.New(
		d.Store,
		decrypt.NewHTTPDecrypter(cfg.Decrypt.BaseURL),
		classify.NewRemoteClassifier(cfg.Classify.BaseURL, cfg.Classify.Token),
		decrypt.NewHTTPFeedback(cfg.Classify.BaseURL, cfg.Classify.Token, d.Logger),
		d.Logger,
		d.Metrics,
		service.Config{
			DefaultCurrency: cfg.Import.DefaultCurrency,
			ChunkSize:       cfg.Import.ChunkSize,
			Concurrency:     cfg.Import.Concurrency,
		},
	)
}

// startMetricsServer exposes the registry for scraping while a command runs.
func (d *Dependencies) startMetricsServer(registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	d.metricsServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", d.Config.Observability.MetricsPort),
		Handler: mux,
	}
	go func() {
		if err := d.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.Logger.Warn("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
}

// Close releases the database pool and stops the metrics listener.
func (d *Dependencies) Close() {
	if d.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.metricsServer.Shutdown(ctx)
	}
	d.Pool.Close()
}

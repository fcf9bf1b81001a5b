package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/infra/database/postgres"
	"github.com/thebenmerlin/MVP90/internal/infra/external/github"
	"github.com/thebenmerlin/MVP90/internal/infra/external/producthunt"
	"github.com/thebenmerlin/MVP90/internal/infra/external/website"
	"github.com/thebenmerlin/MVP90/internal/pkg/config"
	"github.com/thebenmerlin/MVP90/internal/pkg/logger"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
	"github.com/thebenmerlin/MVP90/internal/service/tracking"
)

const (
	serviceName    = "mvp90-runtime"
	serviceVersion = "1.0.0"

	defaultRefreshSpec = "@every 15m"
)

// runtime refreshes every tracked startup on a schedule and persists the
// derived metrics, so API replicas can run without their own warmer.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Msg("Starting MVP90 Runtime (signal refresher)...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database is required here: refreshed metrics have nowhere else to go
	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if cfg.Database.AutoMigrate {
		if err := dbPool.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure schema")
		}
	}
	log.Info().Msg("Database connected")

	trackingSvc := tracking.NewService(postgres.NewTrackingRepository(dbPool.Pool))

	// ========================================
	// 1. Upstream clients
	// ========================================
	githubClient := github.NewClient(github.Config{
		Token:         cfg.GitHub.Token,
		BaseURL:       cfg.GitHub.BaseURL,
		RatePerMinute: cfg.GitHub.RatePerMinute,
		Timeout:       cfg.GitHub.Timeout,
	})
	phClient := producthunt.NewClient(producthunt.Config{
		Token:   cfg.ProductHunt.Token,
		BaseURL: cfg.ProductHunt.BaseURL,
		Timeout: cfg.ProductHunt.Timeout,
	})
	webClient := website.NewClient(website.Config{
		Enabled: cfg.Website.ProbeEnabled,
		Timeout: cfg.Website.Timeout,
	})

	if !githubClient.Enabled() && !phClient.Enabled() && !webClient.Enabled() {
		log.Warn().Msg("No live source configured, refreshes will only produce fallback signals")
	}

	// ========================================
	// 2. Signal service with persistence
	// ========================================
	entities, err := signals.LoadEntities(cfg.Signals.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load startup catalog")
	}

	signalSvc := signals.NewService(signals.Config{
		TTL:      cfg.Signals.CacheTTL,
		Entities: entities,
	}, []signals.Source{
		signals.NewGitHubSource(githubClient, time.Now),
		signals.NewProductHuntSource(phClient, time.Now),
		signals.NewWebsiteSource(webClient, time.Now),
	}, signals.NewCache(), signals.WithTracker(trackingSvc))

	// Initial pass before the first tick
	start := time.Now()
	refreshed := signalSvc.RefreshAll(ctx)
	log.Info().
		Int("entities", len(refreshed)).
		Dur("took", time.Since(start)).
		Msg("Initial refresh complete")

	// ========================================
	// 3. Scheduled refresh
	// ========================================
	spec := cfg.Signals.RefreshCron
	if spec == "" {
		spec = defaultRefreshSpec
	}
	warmer, err := signals.NewWarmer(ctx, signalSvc, spec)
	if err != nil {
		log.Fatal().Err(err).Str("spec", spec).Msg("Failed to schedule refresh")
	}
	warmer.Start()

	log.Info().Str("spec", spec).Msg("Runtime is running")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info().Msg("Shutdown signal received, stopping runtime...")

	cancel()
	warmer.Stop()

	log.Info().Msg("MVP90 Runtime stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/api"
	"github.com/thebenmerlin/MVP90/internal/api/handlers"
	"github.com/thebenmerlin/MVP90/internal/domain/tracking"
	"github.com/thebenmerlin/MVP90/internal/infra/database/postgres"
	"github.com/thebenmerlin/MVP90/internal/infra/external/github"
	"github.com/thebenmerlin/MVP90/internal/infra/external/producthunt"
	"github.com/thebenmerlin/MVP90/internal/infra/external/website"
	"github.com/thebenmerlin/MVP90/internal/pkg/config"
	"github.com/thebenmerlin/MVP90/internal/pkg/logger"
	"github.com/thebenmerlin/MVP90/internal/service/insight"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
	trackingservice "github.com/thebenmerlin/MVP90/internal/service/tracking"
)

const (
	serviceName    = "mvp90-api"
	serviceVersion = "1.0.0"
)

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
		Msg("Starting MVP90 API Server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional database
	var (
		dbPool   *postgres.Pool
		repo     tracking.Repository
		dbHealth handlers.DatabaseProbe
	)
	dbPool, err = postgres.NewPool(ctx, cfg)
	switch {
	case errors.Is(err, postgres.ErrNoDatabaseURL):
		log.Warn().Msg("DATABASE_URL not set, tracking disabled")
	case err != nil:
		log.Error().Err(err).Msg("Failed to connect to database, tracking disabled")
	default:
		defer dbPool.Close()
		if cfg.Database.AutoMigrate {
			if err := dbPool.EnsureSchema(ctx); err != nil {
				log.Fatal().Err(err).Msg("Failed to ensure schema")
			}
		}
		repo = postgres.NewTrackingRepository(dbPool.Pool)
		dbHealth = dbPool
		log.Info().Msg("Database connected")
	}

	trackingSvc := trackingservice.NewService(repo)

	// Upstream clients
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

	integrations := handlers.Integrations{
		GitHub:      githubClient.Enabled(),
		ProductHunt: phClient.Enabled(),
		Database:    trackingSvc.Enabled(),
		Website:     webClient.Enabled(),
	}
	log.Info().
		Bool("github", integrations.GitHub).
		Bool("producthunt", integrations.ProductHunt).
		Bool("database", integrations.Database).
		Bool("website", integrations.Website).
		Msg("Integrations configured")

	// Signal aggregation
	entities, err := signals.LoadEntities(cfg.Signals.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load startup catalog")
	}

	sources := []signals.Source{
		signals.NewGitHubSource(githubClient, time.Now),
		signals.NewProductHuntSource(phClient, time.Now),
		signals.NewWebsiteSource(webClient, time.Now),
	}

	opts := []signals.Option{}
	if trackingSvc.Enabled() {
		opts = append(opts, signals.WithTracker(trackingSvc))
	}
	signalSvc := signals.NewService(signals.Config{
		TTL:      cfg.Signals.CacheTTL,
		Entities: entities,
	}, sources, signals.NewCache(), opts...)

	log.Info().
		Int("entities", len(entities)).
		Dur("ttl", cfg.Signals.CacheTTL).
		Msg("Signal service ready")

	// Insight catalogs
	names := make(map[int]string, len(entities))
	for _, e := range entities {
		names[e.ID] = e.Name
	}
	catalog, err := insight.Load(
		insight.WithMetaStore(trackingSvc),
		insight.WithEntityNames(names),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load insight catalogs")
	}

	// Optional cache warmer
	if cfg.Signals.RefreshCron != "" {
		warmer, err := signals.NewWarmer(ctx, signalSvc, cfg.Signals.RefreshCron)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule cache warmer")
		}
		warmer.Start()
		defer warmer.Stop()
	}

	handler := api.NewRouter(cfg, api.Dependencies{
		Signals:      signalSvc,
		Catalog:      catalog,
		Tracking:     trackingSvc,
		Database:     dbHealth,
		Integrations: integrations,
		Version:      serviceVersion,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", addr).
			Msg("API Server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("MVP90 API Server stopped")
}

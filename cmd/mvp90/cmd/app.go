package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"github.com/thebenmerlin/MVP90/internal/infra/external/github"
	"github.com/thebenmerlin/MVP90/internal/infra/external/producthunt"
	"github.com/thebenmerlin/MVP90/internal/infra/external/website"
	"github.com/thebenmerlin/MVP90/internal/pkg/config"
	"github.com/thebenmerlin/MVP90/internal/pkg/logger"
	insightservice "github.com/thebenmerlin/MVP90/internal/service/insight"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
)

// signalReader is the part of the signal service the commands use
type signalReader interface {
	ListSignals(ctx context.Context) []startup.Signal
	GetSignal(ctx context.Context, id int) (startup.Signal, error)
	Metric(ctx context.Context, id int, name string) (metric.Metric, bool, error)
	CacheStatus() signals.CacheStatus
}

// catalogReader is the part of the insight catalog the commands use
type catalogReader interface {
	Metric(name string) (metric.Metric, error)
	MetricNames() []string
	Overlay(live metric.Metric) metric.Metric
	Breakdown(entityID int, scoreName string) insight.ScoreBreakdown
}

// app services shared by every command
type app struct {
	signals      signalReader
	catalog      catalogReader
	integrations map[string]bool
}

// newApp is replaced in tests
var newApp = buildApp

// buildApp wires config, logging, upstream clients and catalogs.
// The CLI never opens a database connection.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:          logLevel,
		Format:         "pretty",
		ServiceName:    "mvp90-cli",
		ServiceVersion: version,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

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

	entities, err := signals.LoadEntities(cfg.Signals.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load startup catalog: %w", err)
	}

	sources := []signals.Source{
		signals.NewGitHubSource(githubClient, time.Now),
		signals.NewProductHuntSource(phClient, time.Now),
		signals.NewWebsiteSource(webClient, time.Now),
	}
	signalSvc := signals.NewService(signals.Config{
		TTL:      cfg.Signals.CacheTTL,
		Entities: entities,
	}, sources, signals.NewCache())

	names := make(map[int]string, len(entities))
	for _, e := range entities {
		names[e.ID] = e.Name
	}
	catalog, err := insightservice.Load(insightservice.WithEntityNames(names))
	if err != nil {
		return nil, fmt.Errorf("load insight catalogs: %w", err)
	}

	return &app{
		signals: signalSvc,
		catalog: catalog,
		integrations: map[string]bool{
			"github":      githubClient.Enabled(),
			"producthunt": phClient.Enabled(),
			"website":     webClient.Enabled(),
		},
	}, nil
}

// ============================================================================
// Output helpers
// ============================================================================

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBuildCost renders a USD amount with thousands separators, e.g. $45,000
func formatBuildCost(cost int64) string {
	s := decimal.NewFromInt(cost).Abs().StringFixed(0)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if cost < 0 {
		return "-$" + s
	}
	return "$" + s
}

// formatScore renders a 0-10 score as "7/10"
func formatScore(v int) string {
	return fmt.Sprintf("%d/%d", v, startup.MaxScore)
}

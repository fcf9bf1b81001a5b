package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"github.com/thebenmerlin/MVP90/internal/domain/tracking"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
)

// SignalService composed startup signals
type SignalService interface {
	ListSignals(ctx context.Context) []startup.Signal
	GetSignal(ctx context.Context, id int) (startup.Signal, error)
	Refresh(ctx context.Context, id int) (startup.Signal, error)
	ClearCache()
	CacheStatus() signals.CacheStatus
	Metric(ctx context.Context, id int, name string) (metric.Metric, bool, error)
}

// InsightCatalog metric, metadata and breakdown catalogs
type InsightCatalog interface {
	Metric(name string) (metric.Metric, error)
	MetricNames() []string
	MetricGroups() []metric.Group
	Overlay(live metric.Metric) metric.Metric
	SignalMeta(ctx context.Context, id int) (insight.SignalMeta, error)
	SignalMetaIDs() []int
	Breakdown(entityID int, scoreName string) insight.ScoreBreakdown
}

// TrackingService user activity persistence
type TrackingService interface {
	Enabled() bool
	GetUserWatchlist(ctx context.Context, userID string) []tracking.WatchlistItem
	AddToWatchlist(ctx context.Context, userID string, startupID int) bool
	WatchlistCount(ctx context.Context, startupID int) int
	LogUserAction(ctx context.Context, userID, action string, entityID int, metadata map[string]interface{}) bool
}

// pathInt parses a numeric mux path variable
func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, false
	}
	return n, true
}

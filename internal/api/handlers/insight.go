package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/thebenmerlin/MVP90/internal/api/response"
	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
)

// InsightHandler serves metrics, signal metadata and score breakdowns
type InsightHandler struct {
	catalog  InsightCatalog
	signals  SignalService
	tracking TrackingService
}

// NewInsightHandler creates a new insight handler. tracking may be nil.
func NewInsightHandler(catalog InsightCatalog, signals SignalService, tracking TrackingService) *InsightHandler {
	return &InsightHandler{
		catalog:  catalog,
		signals:  signals,
		tracking: tracking,
	}
}

// MetricNotFoundResponse 404 body for unknown metric names
type MetricNotFoundResponse struct {
	Error            string   `json:"error"`
	AvailableMetrics []string `json:"available_metrics"`
}

// MetaNotFoundResponse 404 body for ids without metadata
type MetaNotFoundResponse struct {
	Error        string   `json:"error"`
	AvailableIDs []string `json:"available_ids"`
	Message      string   `json:"message"`
}

// MetricIndexResponse metric catalog overview
type MetricIndexResponse struct {
	Groups           []metric.Group `json:"groups"`
	AvailableMetrics []string       `json:"available_metrics"`
}

// watchlist-backed metrics resolved from the tracking store
var watchlistMetrics = map[string]bool{
	metric.SavedToWatchlistCount: true,
	metric.UsersSavingStartup:    true,
}

// =============================================================================
// Metrics
// =============================================================================

// ListMetrics handles GET /api/metrics
func (h *InsightHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	response.OK(w, MetricIndexResponse{
		Groups:           h.catalog.MetricGroups(),
		AvailableMetrics: h.catalog.MetricNames(),
	})
}

// GetMetric handles GET /api/metrics/{metricName}[?entity=ID]
func (h *InsightHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["metricName"]

	mock, err := h.catalog.Metric(name)
	if errors.Is(err, metric.ErrMetricNotFound) {
		response.NotFound(w, MetricNotFoundResponse{
			Error:            response.MsgMetricNotFound,
			AvailableMetrics: h.catalog.MetricNames(),
		})
		return
	}
	if err != nil {
		response.InternalError(w, r, err)
		return
	}

	raw := r.URL.Query().Get("entity")
	if raw == "" {
		response.OK(w, mock)
		return
	}

	entityID, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "entity must be an integer")
		return
	}

	live, ok, err := h.signals.Metric(r.Context(), entityID, name)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if ok {
		response.OK(w, h.catalog.Overlay(live))
		return
	}

	if watchlistMetrics[name] && h.tracking != nil && h.tracking.Enabled() {
		stored := mock
		stored.Value = h.tracking.WatchlistCount(r.Context(), entityID)
		stored.Source = "Supabase"
		stored.Provenance = metric.ProvenanceLive
		response.OK(w, stored)
		return
	}

	response.OK(w, mock)
}

// =============================================================================
// Signal Metadata
// =============================================================================

// GetSignalMeta handles GET /api/signal_meta/{id}
func (h *InsightHandler) GetSignalMeta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		h.metaNotFound(w)
		return
	}

	meta, err := h.catalog.SignalMeta(r.Context(), id)
	if errors.Is(err, insight.ErrSignalMetaNotFound) {
		h.metaNotFound(w)
		return
	}
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	response.OK(w, meta)
}

func (h *InsightHandler) metaNotFound(w http.ResponseWriter) {
	ids := h.catalog.SignalMetaIDs()
	available := make([]string, len(ids))
	for i, id := range ids {
		available[i] = strconv.Itoa(id)
	}

	response.NotFound(w, MetaNotFoundResponse{
		Error:        response.MsgMetaNotFound,
		AvailableIDs: available,
		Message:      "This entity may not have detailed signal metadata available yet.",
	})
}

// =============================================================================
// Score Breakdown
// =============================================================================

// GetScoreBreakdown handles GET /api/score_breakdown/{entityId}?score=NAME
func (h *InsightHandler) GetScoreBreakdown(w http.ResponseWriter, r *http.Request) {
	entityID, ok := pathInt(r, "entityId")
	if !ok {
		response.FromError(w, r, insight.ErrInvalidEntityID)
		return
	}

	response.OK(w, h.catalog.Breakdown(entityID, r.URL.Query().Get("score")))
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/thebenmerlin/MVP90/internal/api/handlers"
	"github.com/thebenmerlin/MVP90/internal/api/middleware"
	"github.com/thebenmerlin/MVP90/internal/pkg/config"
	"github.com/thebenmerlin/MVP90/internal/pkg/logger"
)

// Dependencies services the router wires into handlers
type Dependencies struct {
	Signals      handlers.SignalService
	Catalog      handlers.InsightCatalog
	Tracking     handlers.TrackingService
	Database     handlers.DatabaseProbe // nil when no database is configured
	Integrations handlers.Integrations
	Version      string
}

// NewRouter builds the HTTP handler with middleware and every route
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := mux.NewRouter()

	// first registered runs outermost
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)

	accessLogger := logger.GetLogger()
	if cfg.Logging.FileEnabled {
		l := logger.NewAccessLogger(cfg.Logging.FilePath, cfg.Logging.RotationSize, cfg.Logging.RetentionDays)
		accessLogger = &l
	}
	r.Use(middleware.Logging(middleware.LoggingConfig{
		AccessLogger: accessLogger,
		SkipPaths:    []string{"/health"},
	}))

	RegisterRoutes(r, deps)

	return middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins))(r)
}

// RegisterRoutes registers every endpoint on r
func RegisterRoutes(r *mux.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Integrations, deps.Version)
	signalsHandler := handlers.NewSignalsHandler(deps.Signals)
	insightHandler := handlers.NewInsightHandler(deps.Catalog, deps.Signals, deps.Tracking)
	trackingHandler := handlers.NewTrackingHandler(deps.Tracking)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", healthHandler.Status).Methods("GET")

	// Signals (static paths before {id})
	api.HandleFunc("/signals", signalsHandler.List).Methods("GET")
	api.HandleFunc("/signals/cache", signalsHandler.ClearCache).Methods("DELETE")
	api.HandleFunc("/signals/cache/status", signalsHandler.CacheStatus).Methods("GET")
	api.HandleFunc("/signals/{id:[0-9]+}", signalsHandler.Get).Methods("GET")
	api.HandleFunc("/signals/{id:[0-9]+}/refresh", signalsHandler.Refresh).Methods("POST")

	// Insight
	api.HandleFunc("/metrics", insightHandler.ListMetrics).Methods("GET")
	api.HandleFunc("/metrics/{metricName}", insightHandler.GetMetric).Methods("GET")
	api.HandleFunc("/signal_meta/{id}", insightHandler.GetSignalMeta).Methods("GET")
	api.HandleFunc("/score_breakdown/{entityId}", insightHandler.GetScoreBreakdown).Methods("GET")

	// Tracking
	api.HandleFunc("/users/{userId}/watchlist", trackingHandler.GetWatchlist).Methods("GET")
	api.HandleFunc("/users/{userId}/watchlist", trackingHandler.AddToWatchlist).Methods("POST")
	api.HandleFunc("/actions", trackingHandler.LogAction).Methods("POST")
}

package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/domain/tracking"
)

// =============================================================================
// Tracking Service
// =============================================================================

// Service persists metrics, watchlists and user actions when a store is
// configured. Without one every call is a no-op returning zero values, and
// store failures degrade the same way.
type Service struct {
	repo tracking.Repository
	now  func() time.Time
}

// NewService creates the service. repo may be nil.
func NewService(repo tracking.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Enabled reports whether a store is configured
func (s *Service) Enabled() bool {
	return s.repo != nil
}

// =============================================================================
// Metrics
// =============================================================================

// GetStartupMetrics returns the stored metrics of a startup
func (s *Service) GetStartupMetrics(ctx context.Context, startupID int) []tracking.StartupMetric {
	if !s.Enabled() {
		return nil
	}

	metrics, err := s.repo.GetStartupMetrics(ctx, startupID)
	if err != nil {
		log.Warn().Err(err).Int("startup_id", startupID).Msg("Failed to get startup metrics")
		return nil
	}
	return metrics
}

// UpdateStartupMetric stores value as JSON under (startupID, name)
func (s *Service) UpdateStartupMetric(ctx context.Context, startupID int, name string, value interface{}) bool {
	if !s.Enabled() {
		return false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to encode metric value")
		return false
	}

	err = s.repo.UpsertStartupMetric(ctx, tracking.StartupMetric{
		StartupID:  startupID,
		MetricName: name,
		Value:      raw,
		UpdatedAt:  s.now(),
	})
	if err != nil {
		log.Warn().Err(err).Int("startup_id", startupID).Str("metric", name).Msg("Failed to update startup metric")
		return false
	}
	return true
}

// =============================================================================
// Watchlist
// =============================================================================

// GetUserWatchlist returns the user's saved startups, never nil
func (s *Service) GetUserWatchlist(ctx context.Context, userID string) []tracking.WatchlistItem {
	if !s.Enabled() {
		return []tracking.WatchlistItem{}
	}

	items, err := s.repo.GetUserWatchlist(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to get watchlist")
		return []tracking.WatchlistItem{}
	}
	if items == nil {
		items = []tracking.WatchlistItem{}
	}
	return items
}

// AddToWatchlist saves a startup for a user. Re-adding reports false.
func (s *Service) AddToWatchlist(ctx context.Context, userID string, startupID int) bool {
	if !s.Enabled() {
		return false
	}

	err := s.repo.AddToWatchlist(ctx, tracking.WatchlistItem{
		UserID:    userID,
		StartupID: startupID,
		CreatedAt: s.now(),
	})
	if errors.Is(err, tracking.ErrAlreadyWatched) {
		log.Debug().Str("user_id", userID).Int("startup_id", startupID).Msg("Startup already on watchlist")
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Int("startup_id", startupID).Msg("Failed to add to watchlist")
		return false
	}
	return true
}

// WatchlistCount returns how many users saved the startup
func (s *Service) WatchlistCount(ctx context.Context, startupID int) int {
	if !s.Enabled() {
		return 0
	}

	n, err := s.repo.CountWatchers(ctx, startupID)
	if err != nil {
		log.Warn().Err(err).Int("startup_id", startupID).Msg("Failed to count watchers")
		return 0
	}
	return n
}

// =============================================================================
// Signal Metadata / Actions
// =============================================================================

// GetSignalMetadata returns the stored metadata document, or nil
func (s *Service) GetSignalMetadata(ctx context.Context, signalID int) json.RawMessage {
	if !s.Enabled() {
		return nil
	}

	doc, err := s.repo.GetSignalMetadata(ctx, signalID)
	if errors.Is(err, tracking.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Int("signal_id", signalID).Msg("Failed to get signal metadata")
		return nil
	}
	return doc
}

// LogUserAction records a user action with optional metadata
func (s *Service) LogUserAction(ctx context.Context, userID, action string, entityID int, metadata map[string]interface{}) bool {
	if !s.Enabled() {
		return false
	}

	var raw json.RawMessage
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			log.Warn().Err(err).Str("action", action).Msg("Failed to encode action metadata")
			return false
		}
		raw = b
	}

	err := s.repo.InsertUserAction(ctx, tracking.UserAction{
		ActionID:  uuid.New(),
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Metadata:  raw,
		CreatedAt: s.now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("Failed to log user action")
		return false
	}
	return true
}

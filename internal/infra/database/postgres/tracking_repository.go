package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thebenmerlin/MVP90/internal/domain/tracking"
)

// TrackingRepository implements tracking.Repository
type TrackingRepository struct {
	pool *pgxpool.Pool
}

// NewTrackingRepository creates a new TrackingRepository
func NewTrackingRepository(pool *pgxpool.Pool) *TrackingRepository {
	return &TrackingRepository{
		pool: pool,
	}
}

// =============================================================================
// Metrics
// =============================================================================

// GetStartupMetrics retrieves every stored metric for a startup
func (r *TrackingRepository) GetStartupMetrics(ctx context.Context, startupID int) ([]tracking.StartupMetric, error) {
	query := `
		SELECT startup_id, metric_name, value, updated_at
		FROM startup_metrics
		WHERE startup_id = $1
		ORDER BY metric_name ASC
	`

	rows, err := r.pool.Query(ctx, query, startupID)
	if err != nil {
		return nil, fmt.Errorf("query startup metrics: %w", err)
	}
	defer rows.Close()

	var metrics []tracking.StartupMetric
	for rows.Next() {
		var m tracking.StartupMetric
		if err := rows.Scan(&m.StartupID, &m.MetricName, &m.Value, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan startup metric: %w", err)
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return metrics, nil
}

// UpsertStartupMetric inserts or replaces a metric value
func (r *TrackingRepository) UpsertStartupMetric(ctx context.Context, m tracking.StartupMetric) error {
	query := `
		INSERT INTO startup_metrics (startup_id, metric_name, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (startup_id, metric_name)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.pool.Exec(ctx, query, m.StartupID, m.MetricName, m.Value, m.UpdatedAt); err != nil {
		return fmt.Errorf("upsert startup metric: %w", err)
	}
	return nil
}

// =============================================================================
// Watchlist
// =============================================================================

// GetUserWatchlist retrieves a user's saved startups, newest first
func (r *TrackingRepository) GetUserWatchlist(ctx context.Context, userID string) ([]tracking.WatchlistItem, error) {
	query := `
		SELECT user_id, startup_id, created_at
		FROM user_watchlists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	items := make([]tracking.WatchlistItem, 0)
	for rows.Next() {
		var item tracking.WatchlistItem
		if err := rows.Scan(&item.UserID, &item.StartupID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// AddToWatchlist saves a startup for a user
func (r *TrackingRepository) AddToWatchlist(ctx context.Context, item tracking.WatchlistItem) error {
	query := `
		INSERT INTO user_watchlists (user_id, startup_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, startup_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, item.UserID, item.StartupID, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert watchlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tracking.ErrAlreadyWatched
	}
	return nil
}

// CountWatchers counts users that saved the startup
func (r *TrackingRepository) CountWatchers(ctx context.Context, startupID int) (int, error) {
	query := `SELECT COUNT(*) FROM user_watchlists WHERE startup_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, startupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count watchers: %w", err)
	}
	return count, nil
}

// =============================================================================
// Signal metadata
// =============================================================================

// GetSignalMetadata retrieves the stored metadata document
func (r *TrackingRepository) GetSignalMetadata(ctx context.Context, signalID int) (json.RawMessage, error) {
	query := `SELECT payload FROM signal_metadata WHERE signal_id = $1`

	var payload json.RawMessage
	err := r.pool.QueryRow(ctx, query, signalID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tracking.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get signal metadata: %w", err)
	}
	return payload, nil
}

// =============================================================================
// Actions
// =============================================================================

// InsertUserAction appends a user action record
func (r *TrackingRepository) InsertUserAction(ctx context.Context, a tracking.UserAction) error {
	query := `
		INSERT INTO user_actions (id, user_id, action, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var metadata interface{}
	if len(a.Metadata) > 0 {
		metadata = a.Metadata
	}

	if _, err := r.pool.Exec(ctx, query, a.ActionID, a.UserID, a.Action, a.EntityID, metadata, a.CreatedAt); err != nil {
		return fmt.Errorf("insert user action: %w", err)
	}
	return nil
}

package tracking

import (
	"context"
	"encoding/json"
)

// Repository persistence for metrics, watchlists and user actions
type Repository interface {
	// Metrics
	GetStartupMetrics(ctx context.Context, startupID int) ([]StartupMetric, error)
	UpsertStartupMetric(ctx context.Context, m StartupMetric) error

	// Watchlist
	GetUserWatchlist(ctx context.Context, userID string) ([]WatchlistItem, error)
	AddToWatchlist(ctx context.Context, item WatchlistItem) error
	CountWatchers(ctx context.Context, startupID int) (int, error)

	// Signal metadata (raw JSON document)
	GetSignalMetadata(ctx context.Context, signalID int) (json.RawMessage, error)

	// Actions
	InsertUserAction(ctx context.Context, action UserAction) error
}

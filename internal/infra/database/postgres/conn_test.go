package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebenmerlin/MVP90/internal/domain/tracking"
	"github.com/thebenmerlin/MVP90/internal/infra/database/postgres"
	"github.com/thebenmerlin/MVP90/internal/pkg/config"
)

func TestNewPool_NoURL(t *testing.T) {
	cfg := &config.Config{}

	_, err := postgres.NewPool(context.Background(), cfg)
	assert.ErrorIs(t, err, postgres.ErrNoDatabaseURL)
}

func TestNewPool(t *testing.T) {
	// Skip if no database available
	t.Skip("Integration test - requires PostgreSQL")

	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	assert.NoError(t, pool.Ping(ctx))
	assert.Equal(t, "healthy", pool.Health(ctx).Status)
}

func TestTrackingRepository(t *testing.T) {
	// Skip if no database available
	t.Skip("Integration test - requires PostgreSQL")

	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pool.EnsureSchema(ctx))
	repo := postgres.NewTrackingRepository(pool.Pool)

	now := time.Now().UTC().Truncate(time.Second)

	err = repo.UpsertStartupMetric(ctx, tracking.StartupMetric{
		StartupID: 1, MetricName: "novelty_score", Value: json.RawMessage(`8`), UpdatedAt: now,
	})
	require.NoError(t, err)

	metrics, err := repo.GetStartupMetrics(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, metrics)

	userID := "test-" + uuid.NewString()
	require.NoError(t, repo.AddToWatchlist(ctx, tracking.WatchlistItem{UserID: userID, StartupID: 1, CreatedAt: now}))
	assert.ErrorIs(t, repo.AddToWatchlist(ctx, tracking.WatchlistItem{UserID: userID, StartupID: 1, CreatedAt: now}), tracking.ErrAlreadyWatched)

	items, err := repo.GetUserWatchlist(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = repo.GetSignalMetadata(ctx, -1)
	assert.ErrorIs(t, err, tracking.ErrNotFound)

	err = repo.InsertUserAction(ctx, tracking.UserAction{
		ActionID: uuid.New(), UserID: userID, Action: "view", EntityID: 1, CreatedAt: now,
	})
	assert.NoError(t, err)
}

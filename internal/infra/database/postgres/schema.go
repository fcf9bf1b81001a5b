package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schemaStatements create the tracking tables if they are missing
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS startup_metrics (
		startup_id  INTEGER     NOT NULL,
		metric_name TEXT        NOT NULL,
		value       JSONB       NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (startup_id, metric_name)
	)`,
	`CREATE TABLE IF NOT EXISTS user_watchlists (
		user_id    TEXT        NOT NULL,
		startup_id INTEGER     NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, startup_id)
	)`,
	`CREATE TABLE IF NOT EXISTS signal_metadata (
		signal_id  INTEGER     PRIMARY KEY,
		payload    JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_actions (
		id         UUID        PRIMARY KEY,
		user_id    TEXT        NOT NULL,
		action     TEXT        NOT NULL,
		entity_id  INTEGER     NOT NULL,
		metadata   JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_actions_user ON user_actions (user_id, created_at DESC)`,
}

// EnsureSchema creates the tracking tables
func (p *Pool) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	log.Info().Int("statements", len(schemaStatements)).Msg("✅ Tracking schema ensured")
	return nil
}

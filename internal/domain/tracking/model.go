package tracking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StartupMetric a persisted metric value for a startup
type StartupMetric struct {
	StartupID  int             `json:"startup_id"`
	MetricName string          `json:"metric_name"`
	Value      json.RawMessage `json:"value"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// WatchlistItem a startup saved by a user
type WatchlistItem struct {
	UserID    string    `json:"user_id"`
	StartupID int       `json:"startup_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAction free-form user activity record
type UserAction struct {
	ActionID  uuid.UUID       `json:"action_id"`
	UserID    string          `json:"user_id"`
	Action    string          `json:"action"`
	EntityID  int             `json:"entity_id"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

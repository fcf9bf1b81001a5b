package handlers

import (
	"context"
	"net/http"

	"github.com/thebenmerlin/MVP90/internal/api/response"
	"github.com/thebenmerlin/MVP90/internal/infra/database/postgres"
)

// DatabaseProbe reports database health
type DatabaseProbe interface {
	Health(ctx context.Context) *postgres.HealthStatus
}

// Integrations feature flags of the configured upstreams
type Integrations struct {
	GitHub      bool `json:"github"`
	ProductHunt bool `json:"productHunt"`
	Database    bool `json:"database"`
	Website     bool `json:"website"`
}

// HealthHandler handles health and integration status endpoints
type HealthHandler struct {
	db           DatabaseProbe
	integrations Integrations
	version      string
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(db DatabaseProbe, integrations Integrations, version string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		integrations: integrations,
		version:      version,
	}
}

// HealthResponse liveness with optional database status
type HealthResponse struct {
	Status   string                 `json:"status"`
	Version  string                 `json:"version"`
	Database *postgres.HealthStatus `json:"database,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
	}

	if h.db != nil {
		resp.Database = h.db.Health(r.Context())
		if resp.Database.Status != "healthy" {
			resp.Status = "degraded"
		}
	}

	response.OK(w, resp)
}

// Status handles GET /api/status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.integrations)
}

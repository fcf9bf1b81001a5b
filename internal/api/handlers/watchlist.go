package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/thebenmerlin/MVP90/internal/api/response"
	"github.com/thebenmerlin/MVP90/internal/domain/tracking"
)

// TrackingHandler handles watchlist and user action requests
type TrackingHandler struct {
	svc TrackingService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(svc TrackingService) *TrackingHandler {
	return &TrackingHandler{svc: svc}
}

// AddWatchlistRequest body of POST /api/users/{userId}/watchlist
type AddWatchlistRequest struct {
	StartupID int `json:"startupId"`
}

// LogActionRequest body of POST /api/actions
type LogActionRequest struct {
	UserID   string                 `json:"userId"`
	Action   string                 `json:"action"`
	EntityID int                    `json:"entityId"`
	Metadata map[string]interface{} `json:"metadata"`
}

// WatchlistResponse a user's saved startups
type WatchlistResponse struct {
	Items []tracking.WatchlistItem `json:"items"`
}

// GetWatchlist handles GET /api/users/{userId}/watchlist
func (h *TrackingHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	response.OK(w, WatchlistResponse{Items: h.svc.GetUserWatchlist(r.Context(), userID)})
}

// AddToWatchlist handles POST /api/users/{userId}/watchlist
func (h *TrackingHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req AddWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.StartupID <= 0 {
		response.BadRequest(w, "startupId is required")
		return
	}

	added := h.svc.AddToWatchlist(r.Context(), userID, req.StartupID)
	response.OK(w, map[string]bool{"added": added})
}

// LogAction handles POST /api/actions
func (h *TrackingHandler) LogAction(w http.ResponseWriter, r *http.Request) {
	var req LogActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.UserID == "" || req.Action == "" {
		response.BadRequest(w, "userId and action are required")
		return
	}

	logged := h.svc.LogUserAction(r.Context(), req.UserID, req.Action, req.EntityID, req.Metadata)
	response.OK(w, map[string]bool{"logged": logged})
}

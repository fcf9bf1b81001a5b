package handlers

import (
	"net/http"
	"strconv"

	"github.com/thebenmerlin/MVP90/internal/api/response"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
)

// SignalsHandler serves the startup signal feed
type SignalsHandler struct {
	svc SignalService
}

// NewSignalsHandler creates a new signals handler
func NewSignalsHandler(svc SignalService) *SignalsHandler {
	return &SignalsHandler{svc: svc}
}

// SignalListResponse feed response
type SignalListResponse struct {
	Signals []startup.Signal `json:"signals"`
	Count   int              `json:"count"`
}

// List handles GET /api/signals
func (h *SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := signals.Filter{
		Industry:  q.Get("industry"),
		Region:    q.Get("region"),
		Source:    q.Get("source"),
		ActionTag: startup.ActionTag(q.Get("actionTag")),
	}
	if filter.ActionTag != "" && !filter.ActionTag.Valid() {
		response.BadRequest(w, "actionTag must be one of Build, Scout, Store")
		return
	}
	if v := q.Get("minNovelty"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "minNovelty must be an integer")
			return
		}
		filter.MinNovelty = n
	}

	out := filter.Apply(h.svc.ListSignals(r.Context()))
	if err := signals.SortSignals(out, q.Get("sort")); err != nil {
		response.BadRequest(w, "sort must be one of noveltyScore, indiaMarketFit, estimatedBuildCost")
		return
	}

	response.OK(w, SignalListResponse{Signals: out, Count: len(out)})
}

// Get handles GET /api/signals/{id}
func (h *SignalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		response.BadRequest(w, "id must be an integer")
		return
	}

	signal, err := h.svc.GetSignal(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.OK(w, signal)
}

// Refresh handles POST /api/signals/{id}/refresh
func (h *SignalsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		response.BadRequest(w, "id must be an integer")
		return
	}

	signal, err := h.svc.Refresh(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.OK(w, signal)
}

// ClearCache handles DELETE /api/signals/cache
func (h *SignalsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCache()
	response.NoContent(w)
}

// CacheStatus handles GET /api/signals/cache/status
func (h *SignalsHandler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.svc.CacheStatus())
}

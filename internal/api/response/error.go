package response

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/thebenmerlin/MVP90/internal/domain/insight"
	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"github.com/thebenmerlin/MVP90/internal/pkg/logger"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error messages
const (
	MsgInternalServer = "Internal server error"
	MsgEntityNotFound = "Startup not found"
	MsgMetricNotFound = "Metric not found"
	MsgMetaNotFound   = "Signal metadata not found"
)

// Error sends {"error": message} with status
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound sends a 404 with a caller-supplied body
func NotFound(w http.ResponseWriter, body interface{}) {
	JSON(w, http.StatusNotFound, body)
}

// InternalError logs err and sends a generic 500
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().
		Err(err).
		Str("request_id", logger.RequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg("Internal server error")

	Error(w, http.StatusInternalServerError, MsgInternalServer)
}

// FromError maps domain sentinel errors to a response
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, startup.ErrEntityNotFound):
		Error(w, http.StatusNotFound, MsgEntityNotFound)
	case errors.Is(err, metric.ErrMetricNotFound):
		Error(w, http.StatusNotFound, MsgMetricNotFound)
	case errors.Is(err, insight.ErrSignalMetaNotFound):
		Error(w, http.StatusNotFound, MsgMetaNotFound)
	case errors.Is(err, insight.ErrInvalidEntityID):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		InternalError(w, r, err)
	}
}

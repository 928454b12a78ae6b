package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mhutchens/trip-planner/internal/domain"
)

// ErrorResponse is the JSON error envelope every non-2xx response carries.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is a machine-readable code plus a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing useful can be done about a failed response write
	json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writePipelineError maps the pipeline error taxonomy onto HTTP statuses:
// context/duration/validation problems are client errors the caller can fix;
// provider failures, timeouts, and empty search results are retryable server
// errors.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidContext):
		writeError(w, http.StatusUnprocessableEntity, "invalid_context", tailMessage(err))
	case errors.Is(err, domain.ErrInvalidDuration):
		writeError(w, http.StatusUnprocessableEntity, "invalid_duration", tailMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", tailMessage(err))
	case errors.Is(err, domain.ErrNoDestination):
		writeError(w, http.StatusUnprocessableEntity, "no_destination", tailMessage(err))
	case errors.Is(err, domain.ErrEmptySearch):
		writeError(w, http.StatusBadGateway, "empty_search_result", tailMessage(err))
	case errors.Is(err, domain.ErrTimeout):
		writeError(w, http.StatusBadGateway, "timeout", tailMessage(err))
	case errors.Is(err, domain.ErrProvider):
		writeError(w, http.StatusBadGateway, "provider_failure", tailMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// tailMessage extracts the human-readable part from a wrapped error chain.
// e.g. "service.PlanService.Run: pipeline.Coordinator.Run: invalid trip
// context: user id is required" → "user id is required".
func tailMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// apiError is the uniform error envelope.
type apiError struct {
	Error string `json:"error"`
}

// respondJSON writes payload with the given status. Encoding failures
// are logged; by then the header is already out.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, apiError{Error: message})
}

// respondValidationError maps a domain validation failure to 422.
func respondValidationError(w http.ResponseWriter, err error) {
	respondError(w, http.StatusUnprocessableEntity, err.Error())
}

// respondNotFound reports a missing entity id.
func respondNotFound(w http.ResponseWriter, entity, id string) {
	respondError(w, http.StatusNotFound, entity+" "+id+" not found")
}

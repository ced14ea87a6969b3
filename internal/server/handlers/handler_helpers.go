package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"health-content-web/internal/store"

	"github.com/google/uuid"
)

const maxRequestBodyBytes = 64 << 10

// Error codes of the JSON error payload.
const (
	codeInvalidRequest     = "invalid_request"
	codeNotFound           = "not_found"
	codeServiceUnavailable = "service_unavailable"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// handleStoreError maps a store failure to 404 or 503 and logs the cause.
func (h *Handler) handleStoreError(w http.ResponseWriter, r *http.Request, msg, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, msg+" not found")
		return
	}
	slog.ErrorContext(r.Context(), "Store request failed", "resource", msg, "id", id, "error", err)
	writeError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "store is unavailable")
}

// validID reports whether id can name a stored record. Records use UUID keys.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

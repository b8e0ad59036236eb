package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/workhive/workhive/internal/faults"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses. The
// body carries the exact reason string so callers can keep matching on it.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case faults.IsUnauthorized(err):
		status = http.StatusForbidden
	case errors.Is(err, faults.ErrNotFound):
		status = http.StatusNotFound
	case faults.IsInvalidState(err):
		status = http.StatusConflict
	case errors.Is(err, faults.ErrInvalidActor),
		errors.Is(err, faults.ErrInsufficientBalance),
		errors.Is(err, faults.ErrInsufficientAllowance),
		errors.Is(err, faults.ErrInvalidRating):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	}
	writeJSON(w, map[string]string{"error": err.Error()}, status)
}

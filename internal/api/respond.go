package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeEngineError maps allocation errors onto HTTP statuses and records them.
func writeEngineError(w http.ResponseWriter, operation string, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, allocation.ErrUnknownCategory):
		status, code = http.StatusBadRequest, "unknown_category"
	case errors.Is(err, allocation.ErrInvalidAllocation):
		status, code = http.StatusBadRequest, "invalid_allocation"
	case errors.Is(err, allocation.ErrInvalidPercent):
		status, code = http.StatusBadRequest, "invalid_percent"
	case errors.Is(err, allocation.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, allocation.ErrInvalidCatalog):
		status, code = http.StatusServiceUnavailable, "invalid_catalog"
	}
	allocationErrors.WithLabelValues(operation, code).Inc()
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}

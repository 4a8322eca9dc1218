package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dispensa/internal/core"
	"dispensa/internal/log"
	"dispensa/internal/services"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the uniform error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service and domain errors onto HTTP statuses.
// Unknown errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, services.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "record store unavailable")
	case errors.Is(err, core.ErrNegativeBudget):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrEmptyField),
		errors.Is(err, core.ErrNonPositiveQuantity),
		errors.Is(err, core.ErrNegativePrice),
		errors.Is(err, core.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

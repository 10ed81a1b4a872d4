package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps a service error onto the HTTP surface.
func WriteError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrorResponse(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return ErrorResponse(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperrors.ErrUnprocessableSource):
		return ErrorResponse(w, http.StatusUnprocessableEntity, "unprocessable_source", err.Error())
	case errors.Is(err, apperrors.ErrProcessing):
		return ErrorResponse(w, http.StatusUnprocessableEntity, "processing_error", err.Error())
	case errors.Is(err, apperrors.ErrInvalidState):
		return ErrorResponse(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	default:
		return ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// PathID parses the named path value as an int64 id.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validationf("invalid %s %q", name, raw)
	}
	return id, nil
}

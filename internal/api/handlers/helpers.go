package handlers

import (
	"address-book-service/internal/api/dto"
	"address-book-service/internal/domain"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// Upper bound on request bodies; an address is well under 2 KiB.
const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, v domain.Violations) {
	writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:   "validation failed",
		Details: v,
	})
}

// decodeJSON reads exactly one JSON object into dst and rejects unknown fields.
// On failure it writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps service and domain errors onto HTTP responses.
// Unexpected errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, r, verr.Violations)
	case errors.Is(err, domain.ErrAddressNotFound):
		writeError(w, r, http.StatusNotFound, "address not found")
	case errors.Is(err, domain.ErrInvalidCoordinate):
		writeValidationError(w, r, domain.Violations{"coordinates": "out_of_range"})
	case errors.Is(err, domain.ErrInvalidRadius):
		writeValidationError(w, r, domain.Violations{"radius_km": "must_be_positive"})
	default:
		slog.ErrorContext(r.Context(), op+" failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

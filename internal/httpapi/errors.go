package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mapbuilder/internal/engine"
	"mapbuilder/internal/host"
	"mapbuilder/internal/manager"
	"mapbuilder/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case errors.Is(err, host.ErrNoMap), errors.Is(err, manager.ErrDestroyed):
		return http.StatusConflict
	case errors.Is(err, host.ErrInvalidDocument), manager.IsValidationError(err):
		return http.StatusBadRequest
	case manager.IsImageLoadError(err):
		return http.StatusUnprocessableEntity
	case engine.IsEngineError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

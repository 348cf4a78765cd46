package httpapi

import (
	"encoding/json"
	"net/http"

	"promptctl/internal/inference"
	"promptctl/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusFor maps a generation error to the status returned to the caller.
func statusFor(err error) int {
	switch {
	case inference.IsModelNotFound(err):
		return http.StatusNotFound
	case inference.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case inference.KindOf(err) == inference.KindRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"employee-directory/internal/core"
)

// errorResponse is the JSON shape of every error the API returns.
type errorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Code      string `json:"code"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	resp := errorResponse{}
	resp.Error.Message = message
	resp.Error.Code = code
	resp.Error.RequestID = requestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// serviceError maps a core-layer error onto an HTTP response. Authorization
// failures become 403, validation failures 400 with the message passed
// through, anything else a generic 500 with the detail kept in the log only.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, r, "administrator role required", "FORBIDDEN", http.StatusForbidden)
	case errors.Is(err, core.ErrInvalidArgument):
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err, "path", r.URL.Path)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

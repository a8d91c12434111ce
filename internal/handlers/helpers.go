package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/benvon/roda-da-vida/internal/request"
	"github.com/benvon/roda-da-vida/internal/validation"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	sanitized := message
	if len(sanitized) > 200 {
		sanitized = sanitized[:200] + "..."
	}
	return sanitized
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	sanitizedMessage := sanitizeErrorMessage(message)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizedMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// decodeJSON reads and validates a request body into dst. On failure the
// error response has already been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "Request body too large")
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	if err := validation.Validate.Struct(dst); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", validation.FirstError(err))
		return false
	}
	return true
}

// workspaceFor returns the caller's workspace, keyed by the client id the
// ClientID middleware resolved
func workspaceFor(reg *workspace.Registry, r *http.Request) *workspace.Workspace {
	return reg.Get(r.Context(), request.ClientIDFromContext(r))
}

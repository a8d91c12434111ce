package request

import (
	"context"
	"net/http"
	"strings"
)

// ClientIDHeader carries the opaque id a browser or CLI keeps between calls
const ClientIDHeader = "X-Client-ID"

type contextKey string

const clientIDContextKey contextKey = "client_id"

// ClientIDContextKey returns the context key used for the client id. Exposed for tests that inject other values.
func ClientIDContextKey() contextKey { return clientIDContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithClientID returns a context with the client id attached.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDContextKey, id)
}

// ClientIDFromContext returns the client id from the request context, or "" if missing or wrong type.
func ClientIDFromContext(r *http.Request) string {
	id, _ := r.Context().Value(clientIDContextKey).(string)
	return id
}

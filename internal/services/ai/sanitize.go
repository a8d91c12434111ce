package ai

import (
	"context"

	"github.com/benvon/roda-da-vida/internal/logger"
)

// Context key types for logging (to avoid collisions with string keys)
type contextKey string

const (
	clientIDContextKey  contextKey = "client_id"
	requestIDContextKey contextKey = "request_id"
)

const (
	// MaxPreviewLength is the maximum length for preview strings in logs
	MaxPreviewLength = 200
	// RedactedValue is the value used to replace sensitive data
	RedactedValue = "[REDACTED]"
)

// WithClientID tags ctx with the client the request is made for
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDContextKey, clientID)
}

// WithRequestID tags ctx with the HTTP request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// SanitizeAPIKey sanitizes an API key for logging
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return RedactedValue
	}
	// Show first 4 and last 4 characters, redact the middle
	return apiKey[:4] + RedactedValue + apiKey[len(apiKey)-4:]
}

// SanitizePrompt creates a safe preview of a prompt for logging
// Even in fullLog mode, we sanitize to prevent log injection and limit size
func SanitizePrompt(prompt string, fullLog bool) string {
	return preview(prompt, fullLog)
}

// SanitizeResponse creates a safe preview of a response for logging
func SanitizeResponse(response string, fullLog bool) string {
	return preview(response, fullLog)
}

func preview(s string, fullLog bool) string {
	if fullLog {
		return logger.SanitizeDebugContent(s)
	}
	return logger.SanitizeString(s, MaxPreviewLength)
}

// ExtractRequestID extracts a request ID from context if available
func ExtractRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return reqID
	}
	return ""
}

// ExtractClientID extracts a client ID from context if available
func ExtractClientID(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDContextKey).(string); ok {
		return logger.SanitizeClientID(id)
	}
	return ""
}

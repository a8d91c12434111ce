package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is a dependency the extended health check probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthChecker handles health check requests
type HealthChecker struct {
	checks map[string]Pinger
}

// NewHealthChecker creates a health checker that probes storage in extended mode
func NewHealthChecker(storage Pinger) *HealthChecker {
	return &HealthChecker{checks: map[string]Pinger{"storage": storage}}
}

// WithCheck adds an optional dependency to the extended check
func (h *HealthChecker) WithCheck(name string, p Pinger) *HealthChecker {
	if p != nil {
		h.checks[name] = p
	}
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		response.Checks = make(map[string]string, len(h.checks))
		for name, p := range h.checks {
			if err := h.ping(r.Context(), p); err != nil {
				response.Status = "unhealthy"
				response.Checks[name] = "unhealthy: " + sanitizeErrorMessage(err.Error())
				continue
			}
			response.Checks[name] = "healthy"
		}
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) ping(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.Ping(ctx)
}

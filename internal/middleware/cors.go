package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/benvon/roda-da-vida/internal/request"
)

// AllowedOrigins splits a comma-separated origin list, trimming and
// dropping duplicates. An empty list falls back to http://localhost:3000.
func AllowedOrigins(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(raw, ",") {
		s := strings.TrimSpace(p)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}

// CORS wraps rs/cors for the frontend origins in frontendURL
func CORS(frontendURL string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   AllowedOrigins(frontendURL),
		AllowCredentials: true,
		MaxAge:           86400,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", request.ClientIDHeader},
		ExposedHeaders:   []string{request.ClientIDHeader, "Content-Disposition"},
	})
	return c.Handler
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// OpenAPIHandler serves the API description in YAML and JSON
type OpenAPIHandler struct {
	spec []byte
}

// NewOpenAPIHandler creates a handler for the given YAML document
func NewOpenAPIHandler(spec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{spec: spec}
}

// RegisterRoutes registers OpenAPI routes
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/openapi.yaml", h.ServeYAML).Methods("GET")
	r.HandleFunc("/api/v1/openapi.json", h.ServeJSON).Methods("GET")
}

// ServeYAML serves the OpenAPI spec in YAML format
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	if len(h.spec) == 0 {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	if _, err := w.Write(h.spec); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

// ServeJSON serves the OpenAPI spec in JSON format
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	if len(h.spec) == 0 {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}

	var doc map[string]any
	if err := yaml.Unmarshal(h.spec, &doc); err != nil {
		http.Error(w, "Failed to parse OpenAPI specification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}

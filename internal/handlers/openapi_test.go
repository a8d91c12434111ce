package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/benvon/roda-da-vida/api"
)

func TestOpenAPIHandler(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	NewOpenAPIHandler(api.OpenAPISpec).RegisterRoutes(r)

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/x-yaml" {
			t.Errorf("Unexpected content type %q", ct)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var doc map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		paths, ok := doc["paths"].(map[string]any)
		if !ok {
			t.Fatal("Expected paths object")
		}
		for _, p := range []string{"/api/v1/wheel", "/api/v1/analysis", "/api/v1/history/{id}/export.pdf"} {
			if _, ok := paths[p]; !ok {
				t.Errorf("Expected path %s in document", p)
			}
		}
	})
}

func TestOpenAPIHandler_Empty(t *testing.T) {
	t.Parallel()

	h := NewOpenAPIHandler(nil)
	rr := httptest.NewRecorder()
	h.ServeJSON(rr, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

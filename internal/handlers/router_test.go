package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/benvon/roda-da-vida/internal/middleware"
	"github.com/benvon/roda-da-vida/internal/request"
	"github.com/benvon/roda-da-vida/internal/services/ai"
	"github.com/benvon/roda-da-vida/internal/services/analysis"
	"github.com/benvon/roda-da-vida/internal/services/capture"
	"github.com/benvon/roda-da-vida/internal/services/payment"
	"github.com/benvon/roda-da-vida/internal/storage"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

const goalsJSON = `[{"area":"Saúde & Energia","goal":"Caminhar 30 minutos, 3x por semana, por 2 meses."}]`

type testServer struct {
	t        *testing.T
	router   *mux.Router
	clientID string
	gen      *ai.StaticProvider
	registry *workspace.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	loc, err := time.LoadLocation("UTC")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	reg, err := workspace.NewRegistry(storage.NewMemory(), 16, workspace.Options{Location: loc})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	gen := &ai.StaticProvider{Text: "**Análise** da sua roda", JSONText: goalsJSON}
	orch := analysis.NewOrchestrator(gen, nil, nil)

	r := mux.NewRouter()
	r.Use(middleware.ClientID)
	api := r.PathPrefix("/api/v1").Subrouter()
	NewWheelHandler(reg).RegisterRoutes(api.PathPrefix("/wheel").Subrouter())
	NewAnalysisHandler(reg, orch, nil).RegisterRoutes(api.PathPrefix("/analysis").Subrouter())
	NewHistoryHandler(reg, nil).RegisterRoutes(api.PathPrefix("/history").Subrouter())
	ent := NewEntitlementHandler(reg, &capture.LogSink{}, payment.NewMock(), nil)
	ent.RegisterRoutes(api.PathPrefix("/entitlement").Subrouter())
	ent.RegisterCheckoutRoutes(api.PathPrefix("/checkout").Subrouter())
	NewTourHandler(reg).RegisterRoutes(api.PathPrefix("/tour").Subrouter())

	return &testServer{t: t, router: r, clientID: uuid.NewString(), gen: gen, registry: reg}
}

// do sends a request as the server's client and returns the recorder
func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(request.ClientIDHeader, s.clientID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// as returns a copy of the server that sends requests as another client
func (s *testServer) as(clientID string) *testServer {
	other := *s
	other.clientID = clientID
	return &other
}

// expect asserts the status and decodes the data envelope into dst
func (s *testServer) expect(rr *httptest.ResponseRecorder, status int, dst any) {
	s.t.Helper()
	if rr.Code != status {
		s.t.Fatalf("status = %d, want %d; body = %s", rr.Code, status, rr.Body.String())
	}
	if dst == nil {
		return
	}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		s.t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		s.t.Fatalf("decode data: %v", err)
	}
}

// errorType returns the error field of an error envelope
func errorType(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	s, _ := body["error"].(string)
	return s
}

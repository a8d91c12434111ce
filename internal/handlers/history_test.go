package handlers

import (
	"bytes"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/benvon/roda-da-vida/internal/report"
	"github.com/benvon/roda-da-vida/internal/wheel"
)

// analyzed runs one analysis with the first area at score and returns its record id
func (s *testServer) analyzed(score int) string {
	s.t.Helper()
	s.expect(s.do(http.MethodPut, scorePath(wheel.StandardCategories()[0]), map[string]any{"value": score}), http.StatusOK, nil)
	var an AnalysisResponse
	s.expect(s.do(http.MethodPost, "/api/v1/analysis", nil), http.StatusOK, &an)
	if an.Record == nil {
		s.t.Fatal("Expected a saved record")
	}
	return an.Record.ID
}

func TestHistory_ListNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.unlock(false)

	first := s.analyzed(2)
	second := s.analyzed(9)

	var list ListHistoryResponse
	s.expect(s.do(http.MethodGet, "/api/v1/history", nil), http.StatusOK, &list)
	if list.Total != 2 {
		t.Fatalf("Expected 2 records, got %d", list.Total)
	}
	if list.Records[0].ID != second || list.Records[1].ID != first {
		t.Errorf("Expected newest first, got %s, %s", list.Records[0].ID, list.Records[1].ID)
	}
}

func TestHistory_GetUnknown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	s.expect(s.do(http.MethodGet, "/api/v1/history/nope", nil), http.StatusNotFound, nil)
	s.expect(s.do(http.MethodPost, "/api/v1/history/nope/restore", nil), http.StatusNotFound, nil)
	s.expect(s.do(http.MethodGet, "/api/v1/history/nope/chart.png", nil), http.StatusNotFound, nil)
}

func TestHistory_Delete(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.unlock(false)
	id := s.analyzed(7)

	s.expect(s.do(http.MethodDelete, "/api/v1/history/"+id, nil), http.StatusNoContent, nil)
	s.expect(s.do(http.MethodDelete, "/api/v1/history/"+id, nil), http.StatusNoContent, nil)
	s.expect(s.do(http.MethodGet, "/api/v1/history/"+id, nil), http.StatusNotFound, nil)
}

func TestHistory_Restore(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.unlock(false)
	category := wheel.StandardCategories()[0]
	id := s.analyzed(1)

	s.expect(s.do(http.MethodPut, scorePath(category), map[string]any{"value": 10}), http.StatusOK, nil)

	var resp WheelResponse
	s.expect(s.do(http.MethodPost, "/api/v1/history/"+id+"/restore", nil), http.StatusOK, &resp)
	for _, a := range resp.Areas {
		if a.Category == category && a.Score != 1 {
			t.Errorf("Expected restored score 1, got %d", a.Score)
		}
	}
}

func TestHistory_ExportPDF(t *testing.T) {
	t.Parallel()

	t.Run("not premium", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.unlock(false)
		id := s.analyzed(4)

		s.expect(s.do(http.MethodGet, "/api/v1/history/"+id+"/export.pdf", nil), http.StatusPaymentRequired, nil)
	})

	t.Run("premium unknown record", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.unlock(true)

		s.expect(s.do(http.MethodGet, "/api/v1/history/nope/export.pdf", nil), http.StatusNotFound, nil)
	})

	t.Run("premium", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.unlock(true)
		id := s.analyzed(4)

		rr := s.do(http.MethodGet, "/api/v1/history/"+id+"/export.pdf", nil)
		s.expect(rr, http.StatusOK, nil)
		if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Expected application/pdf, got %q", ct)
		}
		if cd := rr.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, "roda-da-vida-") {
			t.Errorf("Unexpected Content-Disposition %q", cd)
		}
		if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
			t.Error("Expected a PDF body")
		}
	})
}

func TestHistory_Chart(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.unlock(false)
	id := s.analyzed(6)

	rr := s.do(http.MethodGet, "/api/v1/history/"+id+"/chart.png", nil)
	s.expect(rr, http.StatusOK, nil)
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != report.ChartSize || b.Dy() != report.ChartSize {
		t.Errorf("Expected %dx%d chart, got %v", report.ChartSize, report.ChartSize, b)
	}
}

package handlers

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/report"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

// HistoryHandler handles saved analyses
type HistoryHandler struct {
	registry *workspace.Registry
	logger   *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(registry *workspace.Registry, log *zap.Logger) *HistoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryHandler{registry: registry, logger: log}
}

// RegisterRoutes registers history routes on the given router
// The router should already have the /history prefix
func (h *HistoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHistory).Methods("GET")
	r.HandleFunc("/{id}", h.GetRecord).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteRecord).Methods("DELETE")
	r.HandleFunc("/{id}/restore", h.RestoreRecord).Methods("POST")
	r.HandleFunc("/{id}/export.pdf", h.ExportPDF).Methods("GET")
	r.HandleFunc("/{id}/chart.png", h.Chart).Methods("GET")
}

// ListHistoryResponse lists records newest first
type ListHistoryResponse struct {
	Records []models.AnalysisRecord `json:"records"`
	Total   int                     `json:"total"`
}

// ListHistory lists saved analyses, newest first
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	records := ws.History().List()
	ws.Unlock()

	respondJSON(w, http.StatusOK, ListHistoryResponse{Records: records, Total: len(records)})
}

// GetRecord returns one saved analysis
func (h *HistoryHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(r)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "History record not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteRecord removes a saved analysis. Unknown ids are not an error.
func (h *HistoryHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	ws.History().Remove(mux.Vars(r)["id"])
	ws.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// RestoreRecord makes a saved analysis the active wheel again
func (h *HistoryHandler) RestoreRecord(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Restore(mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, workspace.ErrRecordNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "History record not found")
			return
		}
		respondSetupError(w, err)
		return
	}
	respondWheel(w, http.StatusOK, ws)
}

// ExportPDF renders a saved analysis as a PDF download. Premium only.
func (h *HistoryHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	premium := ws.Gate().IsPremium()
	rec, ok := ws.History().Get(mux.Vars(r)["id"])
	ws.Unlock()

	if !premium {
		respondJSONError(w, http.StatusPaymentRequired, "Payment Required", "PDF export is a premium feature")
		return
	}
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "History record not found")
		return
	}

	var buf bytes.Buffer
	if err := report.Export(&buf, rec); err != nil {
		h.logger.Error("pdf_export_failed", zap.String("record_id", rec.ID), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to export PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.FileName(rec),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("pdf_write_failed", zap.Error(err))
	}
}

// Chart renders the radar chart of a saved analysis
func (h *HistoryHandler) Chart(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(r)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "History record not found")
		return
	}

	png, err := report.RenderChart(report.Categories(rec), rec.Scores)
	if err != nil {
		if errors.Is(err, report.ErrNoCategories) {
			respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Record has no scores")
			return
		}
		h.logger.Error("chart_render_failed", zap.String("record_id", rec.ID), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Warn("chart_write_failed", zap.Error(err))
	}
}

func (h *HistoryHandler) record(r *http.Request) (models.AnalysisRecord, bool) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()
	return ws.History().Get(mux.Vars(r)["id"])
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/services/ai"
	"github.com/benvon/roda-da-vida/internal/services/analysis"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

// AnalysisHandler runs AI analyses of the active wheel
type AnalysisHandler struct {
	registry     *workspace.Registry
	orchestrator *analysis.Orchestrator
	logger       *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(registry *workspace.Registry, orchestrator *analysis.Orchestrator, log *zap.Logger) *AnalysisHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisHandler{registry: registry, orchestrator: orchestrator, logger: log}
}

// RegisterRoutes registers analysis routes on the given router
// The router should already have the /analysis prefix
func (h *AnalysisHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Analyze).Methods("POST")
	r.HandleFunc("", h.Cancel).Methods("DELETE")
	r.HandleFunc("/prompt", h.GetPrompt).Methods("GET")
	r.HandleFunc("/goals", h.SmartGoals).Methods("POST")
}

// AnalysisResponse is the outcome of a narrative run. Text is always
// displayable; Record is set only when the analysis was saved to history.
type AnalysisResponse struct {
	RunID    uint64                 `json:"run_id"`
	Text     string                 `json:"text"`
	Prompt   string                 `json:"prompt"`
	Fallback bool                   `json:"fallback"`
	Record   *models.AnalysisRecord `json:"record,omitempty"`
}

// PromptResponse carries the prompt for use in another assistant
type PromptResponse struct {
	Prompt string `json:"prompt"`
}

// GoalsResponse carries the goals attached to the run's record
type GoalsResponse struct {
	RecordID   string             `json:"record_id"`
	SmartGoals []models.SmartGoal `json:"smart_goals"`
}

func (h *AnalysisHandler) aiContext(r *http.Request, clientID string) *http.Request {
	ctx := ai.WithClientID(r.Context(), clientID)
	ctx = ai.WithRequestID(ctx, uuid.NewString())
	return r.WithContext(ctx)
}

// GetPrompt returns the narrative prompt for the active wheel
func (h *AnalysisHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	snap, ok := ws.Manager().Snapshot()
	ws.Unlock()
	if !ok {
		respondJSONError(w, http.StatusConflict, "Conflict", "Custom wheel setup in progress")
		return
	}
	respondJSON(w, http.StatusOK, PromptResponse{
		Prompt: analysis.BuildNarrativePrompt(snap.Categories, snap.Scores, snap.Notes),
	})
}

// Analyze freezes the active wheel into a new run and asks for the
// narrative. A newer analysis started meanwhile makes this one 409.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)

	ws.Lock()
	if ws.Gate().NeedsEmail() {
		ws.Unlock()
		respondJSONError(w, http.StatusForbidden, "Email Required", "Capture an email before the first analysis")
		return
	}
	run, err := ws.BeginRun()
	ws.Unlock()
	if err != nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "Custom wheel setup in progress")
		return
	}

	r = h.aiContext(r, ws.ID())
	res := h.orchestrator.Narrative(r.Context(), ws, run)
	if res.Dropped {
		respondJSONError(w, http.StatusConflict, "Analysis Superseded", "A newer analysis replaced this one")
		return
	}
	respondJSON(w, http.StatusOK, AnalysisResponse{
		RunID:    run.ID,
		Text:     res.Text,
		Prompt:   res.Prompt,
		Fallback: res.Fallback,
		Record:   res.Record,
	})
}

// Cancel ends the current run; nothing it produces afterwards is saved
func (h *AnalysisHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	ws.Runs().Cancel()
	ws.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// SmartGoals asks for SMART goals for the current run. Premium only.
func (h *AnalysisHandler) SmartGoals(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)

	ws.Lock()
	premium := ws.Gate().IsPremium()
	run := ws.Runs().Current()
	ws.Unlock()

	if !premium {
		respondJSONError(w, http.StatusPaymentRequired, "Payment Required", "SMART goals are a premium feature")
		return
	}
	if run == nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "Run an analysis first")
		return
	}

	r = h.aiContext(r, ws.ID())
	goals, err := h.orchestrator.SmartGoals(r.Context(), ws, run)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, GoalsResponse{RecordID: run.RecordID(), SmartGoals: goals})
	case errors.Is(err, analysis.ErrRunSuperseded):
		respondJSONError(w, http.StatusConflict, "Analysis Superseded", "A newer analysis replaced this one")
	case errors.Is(err, analysis.ErrNoAnalysis):
		respondJSONError(w, http.StatusConflict, "Conflict", "Run an analysis first")
	default:
		h.logger.Warn("smart_goals_request_failed",
			zap.String("client_id", logger.SanitizeClientID(ws.ID())),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", analysis.GoalsErrorText)
	}
}

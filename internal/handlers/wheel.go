package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/validation"
	"github.com/benvon/roda-da-vida/internal/wheel"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

// WheelHandler handles the active wheel and the custom setup wizard
type WheelHandler struct {
	registry *workspace.Registry
}

// NewWheelHandler creates a new wheel handler
func NewWheelHandler(registry *workspace.Registry) *WheelHandler {
	return &WheelHandler{registry: registry}
}

// RegisterRoutes registers wheel routes on the given router
// The router should already have the /wheel prefix
func (h *WheelHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetWheel).Methods("GET")
	r.HandleFunc("/scores/{category}", h.SetScore).Methods("PUT")
	r.HandleFunc("/notes", h.SetNotes).Methods("PUT")
	r.HandleFunc("/mode", h.SwitchMode).Methods("POST")
	r.HandleFunc("/setup", h.BeginSetup).Methods("POST")
	r.HandleFunc("/setup", h.CancelSetup).Methods("DELETE")
	r.HandleFunc("/setup/count", h.SetSetupCount).Methods("PUT")
	r.HandleFunc("/setup/continue", h.ContinueSetup).Methods("POST")
	r.HandleFunc("/setup/names", h.SetSetupNames).Methods("PUT")
	r.HandleFunc("/setup/names/{index}", h.SetSetupName).Methods("PUT")
	r.HandleFunc("/setup/back", h.BackSetup).Methods("POST")
	r.HandleFunc("/setup/finish", h.FinishSetup).Methods("POST")
}

// AreaScore is one category of the wheel with its score band
type AreaScore struct {
	Category string     `json:"category"`
	Score    int        `json:"score"`
	Band     wheel.Band `json:"band"`
}

// SetupResponse describes the wizard step
type SetupResponse struct {
	State      string   `json:"state"`
	Count      int      `json:"count,omitempty"`
	Names      []string `json:"names,omitempty"`
	Categories []string `json:"categories,omitempty"`
	MinCount   int      `json:"min_count"`
	MaxCount   int      `json:"max_count"`
}

// WheelResponse is what the wheel currently shows
type WheelResponse struct {
	Mode         models.Mode   `json:"mode"`
	Areas        []AreaScore   `json:"areas"`
	Notes        string        `json:"notes"`
	AverageScore float64       `json:"average_score"`
	LastUpdated  *time.Time    `json:"last_updated,omitempty"`
	SettingUp    bool          `json:"setting_up"`
	HasCustom    bool          `json:"has_custom"`
	Setup        SetupResponse `json:"setup"`
}

func newWheelResponse(v wheel.View) WheelResponse {
	resp := WheelResponse{
		Mode:      v.Mode,
		Areas:     make([]AreaScore, 0, len(v.Categories)),
		Notes:     v.Notes,
		SettingUp: v.SettingUp,
		HasCustom: v.HasCustom,
		Setup: SetupResponse{
			State:    v.Setup.Name(),
			MinCount: wheel.MinCustomCategories,
			MaxCount: wheel.MaxCustomCategories,
		},
	}
	for _, c := range v.Categories {
		score := v.Scores[c]
		resp.Areas = append(resp.Areas, AreaScore{Category: c, Score: score, Band: wheel.ScoreBand(score)})
	}
	if len(v.Categories) > 0 {
		resp.AverageScore = wheel.AverageScore(v.Categories, v.Scores)
	}
	if !v.LastUpdated.IsZero() {
		t := v.LastUpdated
		resp.LastUpdated = &t
	}
	switch s := v.Setup.(type) {
	case wheel.SetupCountSelection:
		resp.Setup.Count = s.Count
	case wheel.SetupNameEntry:
		resp.Setup.Count = len(s.Names)
		resp.Setup.Names = s.Names
	case wheel.SetupFinalized:
		resp.Setup.Categories = s.Categories.Labels()
	}
	return resp
}

// respondWheel writes the current view. The caller holds the workspace lock.
func respondWheel(w http.ResponseWriter, status int, ws *workspace.Workspace) {
	respondJSON(w, status, newWheelResponse(ws.Manager().View()))
}

// respondSetupError maps wizard errors to HTTP statuses
func respondSetupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wheel.ErrCountOutOfRange):
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, wheel.ErrNameIndex):
		respondJSONError(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, wheel.ErrInvalidTransition), errors.Is(err, wheel.ErrNoCustomSession):
		respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update setup")
	}
}

// GetWheel returns the active wheel
func (h *WheelHandler) GetWheel(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()
	respondWheel(w, http.StatusOK, ws)
}

// ScoreRequest carries a score as typed by the user: a JSON number or a string
type ScoreRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// rawScore turns the request value into the text ParseScore expects
func (s ScoreRequest) rawScore() string {
	var str string
	if err := json.Unmarshal(s.Value, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(s.Value))
}

// SetScore updates one category of the active wheel
func (h *WheelHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	var req ScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	if !ws.Manager().SetScore(category, req.rawScore()) {
		if ws.Manager().View().SettingUp {
			respondJSONError(w, http.StatusConflict, "Conflict", "Custom wheel setup in progress")
			return
		}
		respondJSONError(w, http.StatusNotFound, "Not Found", "Unknown category")
		return
	}
	respondWheel(w, http.StatusOK, ws)
}

// NotesRequest replaces the notes of the active wheel
type NotesRequest struct {
	Notes string `json:"notes"`
}

// SetNotes replaces the notes of the active wheel
func (h *WheelHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	if !ws.Manager().SetNotes(req.Notes) {
		respondJSONError(w, http.StatusConflict, "Conflict", "Custom wheel setup in progress")
		return
	}
	respondWheel(w, http.StatusOK, ws)
}

// ModeRequest selects the standard or custom wheel
type ModeRequest struct {
	Mode string `json:"mode" validate:"required,wheel_mode"`
}

// SwitchMode activates the standard or custom wheel
func (h *WheelHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	ws.Manager().SwitchMode(models.Mode(req.Mode))
	respondWheel(w, http.StatusOK, ws)
}

// BeginSetup opens the wizard, either for a first custom wheel or to
// rebuild the existing one
func (h *WheelHandler) BeginSetup(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	m := ws.Manager()
	if m.Mode() != models.ModeCustom {
		m.SwitchMode(models.ModeCustom)
	}
	if !m.View().SettingUp {
		if err := m.EditCustomAreas(); err != nil {
			respondSetupError(w, err)
			return
		}
	}
	respondWheel(w, http.StatusOK, ws)
}

// CancelSetup closes the wizard
func (h *WheelHandler) CancelSetup(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	ws.Manager().CancelSetup()
	respondWheel(w, http.StatusOK, ws)
}

// CountRequest sets the size of the custom wheel
type CountRequest struct {
	Count int `json:"count"`
}

// SetSetupCount records the requested size; it may be out of range until
// the wizard continues
func (h *WheelHandler) SetSetupCount(w http.ResponseWriter, r *http.Request) {
	var req CountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.setupStep(w, r, func(m *wheel.Manager) error { return m.SetSetupCount(req.Count) })
}

// ContinueSetup moves from count selection to name entry
func (h *WheelHandler) ContinueSetup(w http.ResponseWriter, r *http.Request) {
	h.setupStep(w, r, (*wheel.Manager).ContinueSetup)
}

// NameRequest names one area
type NameRequest struct {
	Name string `json:"name"`
}

// SetSetupName names one area by index
func (h *WheelHandler) SetSetupName(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid name index")
		return
	}
	var req NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := validation.StripControl(req.Name)
	h.setupStep(w, r, func(m *wheel.Manager) error { return m.SetSetupName(index, name) })
}

// NamesRequest names every area at once
type NamesRequest struct {
	Names []string `json:"names" validate:"required"`
}

// SetSetupNames names every area at once
func (h *WheelHandler) SetSetupNames(w http.ResponseWriter, r *http.Request) {
	var req NamesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	names := make([]string, len(req.Names))
	for i, n := range req.Names {
		names[i] = validation.StripControl(n)
	}
	h.setupStep(w, r, func(m *wheel.Manager) error { return m.SetSetupNames(names) })
}

// BackSetup returns from name entry to count selection
func (h *WheelHandler) BackSetup(w http.ResponseWriter, r *http.Request) {
	h.setupStep(w, r, (*wheel.Manager).BackSetup)
}

// FinishSetup builds the custom wheel from the entered names
func (h *WheelHandler) FinishSetup(w http.ResponseWriter, r *http.Request) {
	h.setupStep(w, r, func(m *wheel.Manager) error {
		_, err := m.FinishSetup()
		return err
	})
}

func (h *WheelHandler) setupStep(w http.ResponseWriter, r *http.Request, step func(*wheel.Manager) error) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	defer ws.Unlock()

	if err := step(ws.Manager()); err != nil {
		respondSetupError(w, err)
		return
	}
	respondWheel(w, http.StatusOK, ws)
}

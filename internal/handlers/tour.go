package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/benvon/roda-da-vida/internal/workspace"
)

// TourStep is one onboarding tooltip. TargetID names the UI element it
// points at; "center" means a centred dialog.
type TourStep struct {
	TargetID string `json:"target_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

var tourSteps = []TourStep{
	{
		TargetID: "center",
		Title:    "Bem-vindo(a) à sua Roda da Vida!",
		Content:  "Esta é uma ferramenta de autoconhecimento poderosa. Vamos fazer um tour rápido para você aproveitar ao máximo?",
	},
	{
		TargetID: "tour-custom-btn",
		Title:    "Personalize sua Jornada",
		Content:  "Você pode usar o modelo padrão de áreas ou criar sua própria roda 100% personalizada clicando aqui.",
	},
	{
		TargetID: "tour-sliders",
		Title:    "Avalie cada Área",
		Content:  "Use os sliders para dar uma nota de 0 a 10 para cada área da sua vida. Seja sincero com você mesmo!",
	},
	{
		TargetID: "tour-chart",
		Title:    "Visualize o Equilíbrio",
		Content:  "Seu gráfico será atualizado em tempo real. Uma roda \"quebrada\" não gira bem. Busque o equilíbrio, não a perfeição.",
	},
	{
		TargetID: "tour-cta-btn",
		Title:    "IA Coach \"Fala na Lata\"",
		Content:  "Quando terminar, clique aqui. Nossa Inteligência Artificial vai analisar seus padrões e te dar um plano de ação prático.",
	},
}

// TourHandler serves the onboarding tour
type TourHandler struct {
	registry *workspace.Registry
}

// NewTourHandler creates a new tour handler
func NewTourHandler(registry *workspace.Registry) *TourHandler {
	return &TourHandler{registry: registry}
}

// RegisterRoutes registers tour routes on the given router
// The router should already have the /tour prefix
func (h *TourHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetTour).Methods("GET")
	r.HandleFunc("", h.MarkSeen).Methods("POST")
}

// TourResponse carries the steps and whether they were already shown
type TourResponse struct {
	Seen  bool       `json:"seen"`
	Steps []TourStep `json:"steps"`
}

// GetTour returns the tour and the seen flag
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	seen := ws.SeenTour()
	ws.Unlock()
	respondJSON(w, http.StatusOK, TourResponse{Seen: seen, Steps: tourSteps})
}

// MarkSeen records that the tour was shown
func (h *TourHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	ws.MarkTourSeen()
	ws.Unlock()
	respondJSON(w, http.StatusOK, TourResponse{Seen: true, Steps: tourSteps})
}

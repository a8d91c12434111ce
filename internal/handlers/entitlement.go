package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/request"
	"github.com/benvon/roda-da-vida/internal/services/capture"
	"github.com/benvon/roda-da-vida/internal/services/entitlement"
	"github.com/benvon/roda-da-vida/internal/services/payment"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

// EntitlementHandler handles email capture and the premium purchase
type EntitlementHandler struct {
	registry *workspace.Registry
	sink     capture.Sink
	payments payment.Provider
	amount   int64
	currency string
	logger   *zap.Logger
}

// EntitlementOption configures an EntitlementHandler
type EntitlementOption func(*EntitlementHandler)

// WithPrice overrides the premium price
func WithPrice(amount int64, currency string) EntitlementOption {
	return func(h *EntitlementHandler) {
		if amount > 0 {
			h.amount = amount
		}
		if currency != "" {
			h.currency = currency
		}
	}
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(registry *workspace.Registry, sink capture.Sink, payments payment.Provider, log *zap.Logger, opts ...EntitlementOption) *EntitlementHandler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &EntitlementHandler{
		registry: registry,
		sink:     sink,
		payments: payments,
		amount:   payment.DefaultAmount,
		currency: payment.DefaultCurrency,
		logger:   log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers entitlement routes on the given router
// The router should already have the /entitlement prefix
func (h *EntitlementHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetEntitlement).Methods("GET")
	r.HandleFunc("/email", h.CaptureEmail).Methods("POST")
}

// RegisterCheckoutRoutes registers payment routes on the given router
// The router should already have the /checkout prefix
func (h *EntitlementHandler) RegisterCheckoutRoutes(r *mux.Router) {
	r.HandleFunc("/intent", h.CreateIntent).Methods("POST")
	r.HandleFunc("/confirm", h.ConfirmPayment).Methods("POST")
}

// Price is the premium price in minor units
type Price struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// EntitlementResponse describes what the client has unlocked
type EntitlementResponse struct {
	EmailCaptured bool   `json:"email_captured"`
	Email         string `json:"email,omitempty"`
	Premium       bool   `json:"premium"`
	Price         Price  `json:"price"`
}

func (h *EntitlementHandler) entitlement(ws *workspace.Workspace) EntitlementResponse {
	g := ws.Gate()
	return EntitlementResponse{
		EmailCaptured: !g.NeedsEmail(),
		Email:         g.Email(),
		Premium:       g.IsPremium(),
		Price:         Price{Amount: h.amount, Currency: h.currency},
	}
}

// GetEntitlement returns the client's flags
func (h *EntitlementHandler) GetEntitlement(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFor(h.registry, r)
	ws.Lock()
	resp := h.entitlement(ws)
	ws.Unlock()
	respondJSON(w, http.StatusOK, resp)
}

// EmailRequest captures an email
type EmailRequest struct {
	Email string `json:"email"`
}

// CaptureEmailResponse is the stored email plus the sink acknowledgement
type CaptureEmailResponse struct {
	EntitlementResponse
	Ack *models.LeadAck `json:"ack,omitempty"`
}

// CaptureEmail stores the email, then forwards it to the lead sink. Sink
// failures are logged and do not fail the request.
func (h *EntitlementHandler) CaptureEmail(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws := workspaceFor(h.registry, r)
	ws.Lock()
	if err := ws.Gate().CaptureEmail(req.Email); err != nil {
		ws.Unlock()
		if errors.Is(err, entitlement.ErrInvalidEmail) {
			respondJSONError(w, http.StatusUnprocessableEntity, "Invalid Email", entitlement.InvalidEmailText)
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to store email")
		return
	}
	mode := ws.Manager().Mode()
	lead := &models.Lead{
		ID:        uuid.New(),
		ClientID:  ws.ID(),
		Email:     ws.Gate().Email(),
		Mode:      mode,
		Snapshot:  ws.Manager().Session(mode),
		CreatedAt: time.Now().UTC(),
	}
	resp := CaptureEmailResponse{EntitlementResponse: h.entitlement(ws)}
	ws.Unlock()

	if h.sink != nil {
		ack, err := h.sink.Capture(r.Context(), lead)
		if err != nil {
			h.logger.Warn("lead_capture_failed",
				zap.String("client_id", logger.SanitizeClientID(ws.ID())),
				zap.String("email", logger.MaskEmail(lead.Email)),
				zap.String("error", logger.SanitizeError(err)),
			)
		}
		resp.Ack = ack
	}
	respondJSON(w, http.StatusOK, resp)
}

// charge is the caller's premium purchase at the configured price
func (h *EntitlementHandler) charge(r *http.Request) payment.Charge {
	return payment.Charge{
		ClientID: request.ClientIDFromContext(r),
		Amount:   h.amount,
		Currency: h.currency,
	}
}

// CreateIntent opens a payment for the premium price, bound to the caller
func (h *EntitlementHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	intent, err := h.payments.CreateIntent(r.Context(), h.charge(r))
	if err != nil {
		h.logger.Warn("payment_intent_failed", zap.String("error", logger.SanitizeError(err)))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Payment processor unavailable")
		return
	}
	respondJSON(w, http.StatusCreated, intent)
}

// ConfirmRequest reports a completed client-side payment
type ConfirmRequest struct {
	IntentID string `json:"intent_id" validate:"required,max=255"`
}

// ConfirmPayment checks the intent with the processor and unlocks premium
// once it is paid. An intent issued to another client is unknown here.
func (h *EntitlementHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	paid, err := h.payments.Confirm(r.Context(), h.charge(r), req.IntentID)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownIntent) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Unknown payment intent")
			return
		}
		h.logger.Warn("payment_confirm_failed", zap.String("error", logger.SanitizeError(err)))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Payment processor unavailable")
		return
	}
	if !paid {
		respondJSONError(w, http.StatusPaymentRequired, "Payment Required", "Payment not completed")
		return
	}

	ws := workspaceFor(h.registry, r)
	ws.Lock()
	ws.Gate().GrantPremium()
	resp := h.entitlement(ws)
	ws.Unlock()

	h.logger.Info("premium_granted", zap.String("client_id", logger.SanitizeClientID(ws.ID())))
	respondJSON(w, http.StatusOK, resp)
}

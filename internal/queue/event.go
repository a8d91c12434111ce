package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/benvon/roda-da-vida/internal/models"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeLeadCaptured is published when a client leaves an email
	EventTypeLeadCaptured EventType = "lead_captured"
)

// Event is a message published to the broker
type Event struct {
	ID        uuid.UUID    `json:"id"`
	Type      EventType    `json:"type"`
	ClientID  string       `json:"client_id"`
	Lead      *models.Lead `json:"lead,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewLeadEvent wraps lead in a lead_captured event
func NewLeadEvent(lead *models.Lead) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      EventTypeLeadCaptured,
		ClientID:  lead.ClientID,
		Lead:      lead,
		CreatedAt: time.Now().UTC(),
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an email captured before the first analysis, together with the
// wheel the user had on screen at that moment
type Lead struct {
	ID        uuid.UUID `json:"id"`
	ClientID  string    `json:"client_id"`
	Email     string    `json:"email"`
	Mode      Mode      `json:"mode"`
	Snapshot  *Session  `json:"snapshot,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LeadAck is the acknowledgement returned by a capture sink
type LeadAck struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

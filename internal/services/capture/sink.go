// Package capture forwards captured emails to wherever leads are collected.
package capture

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/database"
	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/queue"
)

// Sink receives one lead per captured email
type Sink interface {
	Capture(ctx context.Context, lead *models.Lead) (*models.LeadAck, error)
}

// LogSink only logs the lead after an artificial delay, like the demo backend
type LogSink struct {
	Logger *zap.Logger
	Delay  time.Duration
}

func (s *LogSink) Capture(ctx context.Context, lead *models.Lead) (*models.LeadAck, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	ack := newAck()
	if s.Logger != nil {
		s.Logger.Info("lead_captured",
			zap.String("client_id", logger.SanitizeClientID(lead.ClientID)),
			zap.String("email", logger.MaskEmail(lead.Email)),
			zap.String("mode", string(lead.Mode)),
			zap.String("session_id", ack.SessionID),
		)
	}
	return ack, nil
}

// RepositorySink stores leads in the leads table
type RepositorySink struct {
	Repo *database.LeadRepository
}

func (s *RepositorySink) Capture(ctx context.Context, lead *models.Lead) (*models.LeadAck, error) {
	if err := s.Repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return &models.LeadAck{SessionID: "sess_" + lead.ID.String(), UserID: "user_" + lead.ClientID}, nil
}

// QueueSink publishes a lead_captured event
type QueueSink struct {
	Publisher queue.Publisher
}

func (s *QueueSink) Capture(ctx context.Context, lead *models.Lead) (*models.LeadAck, error) {
	ev := queue.NewLeadEvent(lead)
	if err := s.Publisher.Publish(ctx, ev); err != nil {
		return nil, fmt.Errorf("publish lead: %w", err)
	}
	return &models.LeadAck{SessionID: "sess_" + ev.ID.String(), UserID: "user_" + lead.ClientID}, nil
}

const ackAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomToken(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(ackAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b[i] = ackAlphabet[0]
			continue
		}
		b[i] = ackAlphabet[v.Int64()]
	}
	return string(b)
}

func newAck() *models.LeadAck {
	return &models.LeadAck{SessionID: "sess_" + randomToken(9), UserID: "user_" + randomToken(9)}
}

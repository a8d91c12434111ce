// Package workers consumes broker events outside the request path.
package workers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/queue"
)

// ErrMalformedEvent is returned for events that can never be processed
var ErrMalformedEvent = errors.New("malformed lead event")

// LeadStore persists captured leads
type LeadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
}

// Delivery acknowledges one broker message
type Delivery interface {
	Ack() error
	Nack(requeue bool) error
}

// LeadRecorder writes lead_captured events to a LeadStore
type LeadRecorder struct {
	store  LeadStore
	logger *zap.Logger
}

// NewLeadRecorder creates a recorder
func NewLeadRecorder(store LeadStore, log *zap.Logger) *LeadRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeadRecorder{store: store, logger: log}
}

// Handle records ev and settles d. A failed first delivery is requeued once;
// a failed redelivery or a malformed event goes to the dead letter queue.
func (r *LeadRecorder) Handle(ctx context.Context, ev *queue.Event, d Delivery, redelivered bool) error {
	err := r.record(ctx, ev)
	if err == nil {
		if ackErr := d.Ack(); ackErr != nil {
			return fmt.Errorf("ack lead event: %w", ackErr)
		}
		return nil
	}

	requeue := !redelivered && !errors.Is(err, ErrMalformedEvent)
	r.logger.Warn("lead_record_failed",
		zap.Bool("requeue", requeue),
		zap.String("error", logger.SanitizeError(err)),
	)
	if nackErr := d.Nack(requeue); nackErr != nil {
		return errors.Join(err, fmt.Errorf("nack lead event: %w", nackErr))
	}
	return err
}

func (r *LeadRecorder) record(ctx context.Context, ev *queue.Event) error {
	if ev == nil || ev.Type != queue.EventTypeLeadCaptured || ev.Lead == nil || ev.Lead.Email == "" {
		return ErrMalformedEvent
	}
	if err := r.store.Create(ctx, ev.Lead); err != nil {
		return fmt.Errorf("store lead: %w", err)
	}
	r.logger.Info("lead_recorded",
		zap.String("event_id", ev.ID.String()),
		zap.String("client_id", logger.SanitizeClientID(ev.Lead.ClientID)),
		zap.String("email", logger.MaskEmail(ev.Lead.Email)),
	)
	return nil
}

// Run handles messages until ctx is cancelled or msgs is closed
func (r *LeadRecorder) Run(ctx context.Context, msgs <-chan *queue.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				r.logger.Info("lead_consumer_closed")
				return
			}
			if err := r.Handle(ctx, msg.Event, msg, msg.Redelivered); err != nil {
				r.logger.Error("lead_event_failed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			}
		}
	}
}

package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/queue"
)

type mockLeadStore struct {
	err   error
	leads []*models.Lead
}

func (m *mockLeadStore) Create(_ context.Context, lead *models.Lead) error {
	if m.err != nil {
		return m.err
	}
	m.leads = append(m.leads, lead)
	return nil
}

type mockDelivery struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (d *mockDelivery) Ack() error { d.acked = true; return nil }

func (d *mockDelivery) Nack(requeue bool) error {
	d.nacked = true
	d.requeue = requeue
	return nil
}

func leadEvent() *queue.Event {
	return queue.NewLeadEvent(&models.Lead{
		ID:        uuid.New(),
		ClientID:  "local",
		Email:     "ana@example.com",
		Mode:      models.ModeStandard,
		CreatedAt: time.Now().UTC(),
	})
}

func TestLeadRecorder_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		event       *queue.Event
		storeErr    error
		redelivered bool
		wantErr     bool
		wantAck     bool
		wantRequeue bool
		wantStored  int
	}{
		{name: "stored", event: leadEvent(), wantAck: true, wantStored: 1},
		{name: "store fails first time", event: leadEvent(), storeErr: errors.New("db down"), wantErr: true, wantRequeue: true},
		{name: "store fails on redelivery", event: leadEvent(), storeErr: errors.New("db down"), redelivered: true, wantErr: true},
		{name: "nil event", event: nil, wantErr: true},
		{name: "missing lead", event: &queue.Event{Type: queue.EventTypeLeadCaptured}, wantErr: true},
		{name: "wrong type", event: &queue.Event{Type: "other", Lead: &models.Lead{Email: "a@b.co"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &mockLeadStore{err: tt.storeErr}
			d := &mockDelivery{}
			err := NewLeadRecorder(store, nil).Handle(context.Background(), tt.event, d, tt.redelivered)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Handle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if d.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", d.acked, tt.wantAck)
			}
			if !tt.wantAck && !d.nacked {
				t.Error("Expected the delivery to be nacked")
			}
			if d.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", d.requeue, tt.wantRequeue)
			}
			if len(store.leads) != tt.wantStored {
				t.Errorf("stored %d leads, want %d", len(store.leads), tt.wantStored)
			}
		})
	}
}

func TestLeadRecorder_RunStopsWhenChannelCloses(t *testing.T) {
	t.Parallel()

	msgs := make(chan *queue.Message)
	close(msgs)

	done := make(chan struct{})
	go func() {
		NewLeadRecorder(&mockLeadStore{}, nil).Run(context.Background(), msgs)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the channel closed")
	}
}

package capture

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benvon/roda-da-vida/internal/database"
	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/queue"
)

func testLead() *models.Lead {
	return &models.Lead{
		ID:        uuid.New(),
		ClientID:  "c1",
		Email:     "ana@example.com",
		Mode:      models.ModeStandard,
		CreatedAt: time.Now(),
	}
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	s := &LogSink{Logger: zap.New(core), Delay: time.Millisecond}
	ack, err := s.Capture(context.Background(), testLead())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !strings.HasPrefix(ack.SessionID, "sess_") || len(ack.SessionID) != 14 || !strings.HasPrefix(ack.UserID, "user_") {
		t.Errorf("Unexpected ack %+v", ack)
	}
	entries := logs.FilterMessage("lead_captured").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["email"]; got != "a***@example.com" {
		t.Errorf("Expected masked email, got %v", got)
	}
}

func TestLogSink_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &LogSink{Delay: time.Hour}
	if _, err := s.Capture(ctx, testLead()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestQueueSink(t *testing.T) {
	t.Parallel()

	pub := &queue.MemoryPublisher{}
	lead := testLead()
	ack, err := (&QueueSink{Publisher: pub}).Capture(context.Background(), lead)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	events := pub.Events()
	if len(events) != 1 || events[0].Lead.Email != lead.Email {
		t.Fatalf("Unexpected events %+v", events)
	}
	if ack.SessionID != "sess_"+events[0].ID.String() {
		t.Errorf("Expected ack tied to event id, got %s", ack.SessionID)
	}
}

func TestRepositorySink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := database.NewLeadRepository(db)
	lead := testLead()
	if _, err := (&RepositorySink{Repo: repo}).Capture(ctx, lead); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if n, _ := repo.CountByEmail(ctx, lead.Email); n != 1 {
		t.Errorf("Expected lead stored, got %d", n)
	}
}

package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/benvon/roda-da-vida/internal/models"
)

// LeadRepository records captured emails.
type LeadRepository struct {
	db *DB
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a lead together with its wheel snapshot.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	var snapshot []byte
	if lead.Snapshot != nil {
		var err error
		snapshot, err = json.Marshal(lead.Snapshot)
		if err != nil {
			return fmt.Errorf("marshal lead snapshot: %w", err)
		}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (id, client_id, email, mode, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, lead.ID.String(), lead.ClientID, lead.Email, string(lead.Mode), string(snapshot), lead.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// CountByEmail returns how many times email was captured.
func (r *LeadRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE email = $1`, email).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

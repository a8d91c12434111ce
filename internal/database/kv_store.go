package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepository stores opaque string values per namespace and key.
type KVRepository struct {
	db *DB
}

// NewKVRepository creates a new key/value repository.
func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value for key. ok is false when the key is absent.
func (r *KVRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM kv_store WHERE namespace = $1 AND key = $2
	`, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
func (r *KVRepository) Set(ctx context.Context, namespace, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_store (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, namespace, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(ctx context.Context, namespace, key string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM kv_store WHERE namespace = $1 AND key = $2
	`, namespace, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Ping checks the connection.
func (r *KVRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

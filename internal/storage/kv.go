// Package storage persists one client's wheel, history and flags as JSON
// values in a key/value backend.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/benvon/roda-da-vida/internal/database"
)

// KV is the persistence port. Values are opaque strings.
type KV interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Ping(ctx context.Context) error
}

var _ KV = (*database.KVRepository)(nil)
var _ KV = (*Memory)(nil)

// Memory is an in-process KV used by tests and the memory driver.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[namespace][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string]string)
		m.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[namespace], key)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Backend is an opened KV plus whatever must be closed with it
type Backend struct {
	KV KV
	DB *database.DB
}

// Close releases the SQL connection, if any
func (b *Backend) Close() error {
	if b.DB != nil {
		return b.DB.Close()
	}
	return nil
}

// Open returns the backend for driver: memory, sqlite or postgres
func Open(ctx context.Context, driver, dsn string) (*Backend, error) {
	switch driver {
	case "memory":
		return &Backend{KV: NewMemory()}, nil
	case database.DriverSQLite, database.DriverPostgres:
		db, err := database.Open(ctx, driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return &Backend{KV: database.NewKVRepository(db), DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

package queue

import (
	"context"
	"sync"
)

// Publisher is the interface for event brokers
type Publisher interface {
	// Publish sends an event to the broker
	Publish(ctx context.Context, event *Event) error

	// Close closes the broker connection
	Close() error

	// HealthCheck verifies the broker connection is healthy
	HealthCheck(ctx context.Context) error
}

// MemoryPublisher keeps published events in memory
type MemoryPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func (p *MemoryPublisher) Publish(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

func (p *MemoryPublisher) HealthCheck(context.Context) error { return nil }

// Events returns the events published so far
func (p *MemoryPublisher) Events() []*Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Event(nil), p.events...)
}

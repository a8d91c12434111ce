// Package workspace ties one client's wheel, history, entitlement flags and
// analysis runs together behind a single lock.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/history"
	"github.com/benvon/roda-da-vida/internal/services/analysis"
	"github.com/benvon/roda-da-vida/internal/services/entitlement"
	"github.com/benvon/roda-da-vida/internal/storage"
	"github.com/benvon/roda-da-vida/internal/wheel"
)

var (
	// ErrRecordNotFound is returned when a history id is unknown
	ErrRecordNotFound = errors.New("history record not found")
	// ErrNoActiveWheel is returned while the setup wizard hides the wheel
	ErrNoActiveWheel = errors.New("no wheel is active")
)

// Options configures how workspaces are built
type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Workspace is the state of one client. Callers hold the lock around every
// access to Manager, History, Gate and Runs.
type Workspace struct {
	mu sync.Mutex

	id       string
	adapter  *storage.Adapter
	manager  *wheel.Manager
	history  *history.Store
	gate     *entitlement.Gate
	runs     analysis.Runs
	seenTour bool
}

// Load reads a client's persisted state from kv. When neither draft exists
// but history does, the newest record becomes the active wheel.
func Load(ctx context.Context, kv storage.KV, clientID string, opts Options) *Workspace {
	opts = opts.withDefaults()
	adapter := storage.NewAdapter(kv, clientID, opts.Logger)
	loaded := adapter.Load(ctx)

	w := &Workspace{
		id:       clientID,
		adapter:  adapter,
		seenTour: loaded.SeenTour,
	}
	w.manager = wheel.NewManager(wheel.State{
		Mode:     loaded.Mode,
		Standard: loaded.Standard,
		Custom:   loaded.Custom,
	}, adapter, wheel.WithClock(opts.Clock))
	w.history = history.NewStore(loaded.History, adapter,
		history.WithClock(opts.Clock),
		history.WithLocation(opts.Location),
	)
	w.gate = entitlement.NewGate(loaded.Email, loaded.Premium, adapter)

	if loaded.Standard == nil && loaded.Custom == nil {
		if latest, ok := w.history.Latest(); ok {
			mode, session := history.Restore(latest)
			if err := w.manager.Apply(mode, session); err != nil {
				opts.Logger.Warn("history_restore_failed",
					zap.String("record_id", latest.ID),
					zap.Error(err),
				)
			}
		}
	}
	return w
}

// Lock acquires the workspace lock
func (w *Workspace) Lock() { w.mu.Lock() }

// Unlock releases the workspace lock
func (w *Workspace) Unlock() { w.mu.Unlock() }

// ID is the client id the workspace is stored under
func (w *Workspace) ID() string { return w.id }

func (w *Workspace) Manager() *wheel.Manager { return w.manager }
func (w *Workspace) History() *history.Store { return w.history }
func (w *Workspace) Gate() *entitlement.Gate { return w.gate }
func (w *Workspace) Runs() *analysis.Runs    { return &w.runs }
func (w *Workspace) SeenTour() bool          { return w.seenTour }

// MarkTourSeen records that the onboarding tour was shown
func (w *Workspace) MarkTourSeen() {
	if w.seenTour {
		return
	}
	w.seenTour = true
	w.adapter.MarkTourSeen()
}

// BeginRun freezes the active wheel into a new analysis run, superseding any
// run in flight.
func (w *Workspace) BeginRun() (*analysis.Run, error) {
	snap, ok := w.manager.Snapshot()
	if !ok {
		return nil, ErrNoActiveWheel
	}
	return w.runs.Begin(snap), nil
}

// Restore makes the record with id the active wheel
func (w *Workspace) Restore(id string) error {
	rec, ok := w.history.Get(id)
	if !ok {
		return ErrRecordNotFound
	}
	mode, session := history.Restore(rec)
	return w.manager.Apply(mode, session)
}

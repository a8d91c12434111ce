package analysis

import (
	"context"

	"github.com/benvon/roda-da-vida/internal/wheel"
)

// Run is one analysis session: a frozen wheel snapshot, the record its
// narrative produced and a cancellation token. Only the newest run of a
// tracker may write.
type Run struct {
	ID       uint64
	Snapshot wheel.Snapshot

	ctx      context.Context
	cancel   context.CancelFunc
	recordID string
}

// RecordID is the history record created by this run, if any
func (r *Run) RecordID() string {
	return r.recordID
}

// Done is closed once the run is superseded or cancelled
func (r *Run) Done() <-chan struct{} {
	return r.ctx.Done()
}

// Runs tracks the current run. It is not safe for concurrent use;
// the owning workspace serialises access.
type Runs struct {
	seq     uint64
	current *Run
}

// Begin starts a run for snapshot and cancels the previous one
func (r *Runs) Begin(snapshot wheel.Snapshot) *Run {
	r.Cancel()
	r.seq++
	ctx, cancel := context.WithCancel(context.Background())
	r.current = &Run{ID: r.seq, Snapshot: snapshot, ctx: ctx, cancel: cancel}
	return r.current
}

// Current returns the live run or nil
func (r *Runs) Current() *Run {
	return r.current
}

// IsCurrent reports whether run may still write
func (r *Runs) IsCurrent(run *Run) bool {
	return run != nil && r.current == run && run.ctx.Err() == nil
}

// Cancel ends the current run without starting another
func (r *Runs) Cancel() {
	if r.current != nil {
		r.current.cancel()
		r.current = nil
	}
}

// bind returns a context cancelled by either ctx or the run
func (r *Run) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(r.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

package workspace

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/benvon/roda-da-vida/internal/storage"
)

// DefaultCacheSize is how many workspaces stay in memory
const DefaultCacheSize = 256

// Registry hands out one Workspace per client id. Evicted workspaces have
// their run cancelled; their state is already persisted and is reloaded on
// the next request.
type Registry struct {
	mu    sync.Mutex
	kv    storage.KV
	opts  Options
	cache *lru.Cache[string, *Workspace]
}

// NewRegistry creates a registry backed by kv
func NewRegistry(kv storage.KV, size int, opts Options) (*Registry, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.NewWithEvict(size, func(_ string, w *Workspace) {
		w.Lock()
		w.runs.Cancel()
		w.Unlock()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace cache: %w", err)
	}
	return &Registry{kv: kv, opts: opts.withDefaults(), cache: cache}, nil
}

// Get returns the workspace for clientID, loading it on first use
func (r *Registry) Get(ctx context.Context, clientID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.cache.Get(clientID); ok {
		return w
	}
	w := Load(ctx, r.kv, clientID, r.opts)
	r.cache.Add(clientID, w)
	return w
}

// Len is the number of cached workspaces
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Ping checks the storage backend
func (r *Registry) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}

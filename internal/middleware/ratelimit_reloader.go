package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/models"
)

// RatelimitSource stores the operator-configured rate
type RatelimitSource interface {
	Get(ctx context.Context) (*models.RatelimitConfig, error)
	Set(ctx context.Context, cfg *models.RatelimitConfig) error
}

// RateLimitReloader wraps ulule/limiter and periodically reloads the rate from the database.
type RateLimitReloader struct {
	next        http.Handler
	store       limiter.Store
	repo        RatelimitSource
	defaultRate string
	scope       string
	log         *zap.Logger
	interval    time.Duration
	mu          sync.RWMutex
	current     http.Handler
	rate        string
}

// NewRateLimitReloader creates a rate limit middleware that loads config from the DB and hot-reloads it.
func NewRateLimitReloader(store limiter.Store, repo RatelimitSource, defaultRate, scope string, log *zap.Logger, reloadInterval time.Duration) *RateLimitReloader {
	if defaultRate == "" {
		defaultRate = defaultRatelimitRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimitReloader{
		store:       store,
		repo:        repo,
		defaultRate: defaultRate,
		scope:       scope,
		log:         log,
		interval:    reloadInterval,
	}
}

// Middleware returns a middleware that wraps next with rate limiting and hot-reload.
func (r *RateLimitReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		r.next = next
		r.load(context.Background())
		return r
	}
}

// Start runs the reload loop until ctx is cancelled. Call after Middleware() is applied.
func (r *RateLimitReloader) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.load(ctx)
		}
	}
}

// Rate is the rate currently enforced
func (r *RateLimitReloader) Rate() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rate
}

func (r *RateLimitReloader) load(ctx context.Context) {
	if r.next == nil {
		return
	}
	cfg, err := r.repo.Get(ctx)
	rateStr := r.defaultRate
	if err != nil {
		r.log.Warn("failed_to_load_ratelimit_config_from_db_using_default",
			zap.Error(err),
			zap.String("default_rate", r.defaultRate),
		)
	} else if cfg != nil && cfg.Rate != "" {
		rateStr = cfg.Rate
	} else {
		if err = r.repo.Set(ctx, &models.RatelimitConfig{Rate: r.defaultRate}); err != nil {
			r.log.Error("failed_to_save_default_ratelimit_config",
				zap.Error(err),
				zap.String("default_rate", r.defaultRate),
			)
		}
	}

	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		r.log.Error("failed_to_parse_rate_limit_using_default",
			zap.Error(err),
			zap.String("rate_str", rateStr),
			zap.String("default_rate", r.defaultRate),
		)
		rateStr = r.defaultRate
		rate, err = limiter.NewRateFromFormatted(rateStr)
		if err != nil {
			r.log.Error("failed_to_parse_default_rate_limit",
				zap.Error(err),
				zap.String("default_rate", r.defaultRate),
			)
			return
		}
	}

	r.mu.RLock()
	unchanged := r.current != nil && r.rate == rateStr
	r.mu.RUnlock()
	if unchanged {
		return
	}

	instance := limiter.New(r.store, rate)
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(rateLimitKey(r.scope)))
	h := mw.Handler(r.next)

	r.mu.Lock()
	r.current = h
	r.rate = rateStr
	r.mu.Unlock()
	r.log.Info("ratelimit_config_loaded", zap.String("scope", r.scope), zap.String("rate", rateStr))
}

// ServeHTTP implements http.Handler.
func (r *RateLimitReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	h := r.current
	r.mu.RUnlock()
	if h != nil {
		h.ServeHTTP(w, req)
		return
	}
	if r.next != nil {
		r.next.ServeHTTP(w, req)
	}
}

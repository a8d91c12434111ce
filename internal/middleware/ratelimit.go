package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/benvon/roda-da-vida/internal/request"
)

// RedisRateLimiter wraps Redis client for rate limiting
type RedisRateLimiter struct {
	client *redis.Client
}

// NewRedisRateLimiter creates a new Redis-backed rate limiter
func NewRedisRateLimiter(redisURL string) (*RedisRateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateLimiter{client: client}, nil
}

// Client returns the underlying Redis client
func (r *RedisRateLimiter) Client() *redis.Client {
	return r.client
}

// Close closes the Redis connection
func (r *RedisRateLimiter) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is reachable
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Store returns a limiter store on this Redis client
func (r *RedisRateLimiter) Store() (limiter.Store, error) {
	store, err := redisstore.NewStoreWithOptions(r.client, limiter.StoreOptions{Prefix: "roda_limiter"})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	return store, nil
}

// NewMemoryStore returns an in-process limiter store for single-instance use
func NewMemoryStore() limiter.Store {
	return memorystore.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "roda_limiter",
		CleanUpInterval: time.Minute,
	})
}

// rateLimitKey limits per client id, falling back to the caller's IP.
// scope separates the budgets of limiters sharing one store.
func rateLimitKey(scope string) func(*http.Request) string {
	return func(r *http.Request) string {
		if id := request.ClientIDFromContext(r); id != "" {
			return scope + ":client:" + id
		}
		return scope + ":ip:" + request.ClientIP(r)
	}
}

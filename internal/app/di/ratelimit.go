// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"signup_backend/internal/platform/ratelimit"
)

// NewSignupLimiter creates the Limiter guarding the signup endpoints.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to process memory.
func NewSignupLimiter(rdb *redis.Client, cfg ratelimit.Config) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.NewRedisLimiter(rdb, "ratelimit:signup", cfg)
	}
	return ratelimit.NewMemoryLimiter(cfg)
}

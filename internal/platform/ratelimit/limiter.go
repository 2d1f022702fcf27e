// Package ratelimit limits how often a client may hit the signup endpoints.
// It keeps a fixed window counter per key, in Redis when available and in
// process memory otherwise.
package ratelimit

import (
	"context"
	"os"
	"strconv"
	"time"
)

const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts hits per key within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config holds the per-window budget.
type Config struct {
	Limit  int
	Window time.Duration
}

// LoadConfigFromEnv reads SIGNUP_RATE_LIMIT and SIGNUP_RATE_WINDOW, falling back to 10 per minute.
func LoadConfigFromEnv() Config {
	cfg := Config{Limit: defaultLimit, Window: defaultWindow}
	if n, err := strconv.Atoi(os.Getenv("SIGNUP_RATE_LIMIT")); err == nil && n > 0 {
		cfg.Limit = n
	}
	if d, err := time.ParseDuration(os.Getenv("SIGNUP_RATE_WINDOW")); err == nil && d > 0 {
		cfg.Window = d
	}
	return cfg
}

func (c Config) normalized() Config {
	if c.Limit <= 0 {
		c.Limit = defaultLimit
	}
	if c.Window <= 0 {
		c.Window = defaultWindow
	}
	return c
}

func decide(count int64, limit int, ttl time.Duration) Decision {
	if count > int64(limit) {
		return Decision{Allowed: false, RetryAfter: ttl}
	}
	return Decision{Allowed: true, Remaining: limit - int(count)}
}

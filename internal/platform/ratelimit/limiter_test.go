package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		limit    string
		window   string
		expected Config
	}{
		{"defaults", "", "", Config{Limit: 10, Window: time.Minute}},
		{"custom", "3", "30s", Config{Limit: 3, Window: 30 * time.Second}},
		{"invalid values", "-1", "later", Config{Limit: 10, Window: time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SIGNUP_RATE_LIMIT", tt.limit)
			t.Setenv("SIGNUP_RATE_WINDOW", tt.window)

			assert.Equal(t, tt.expected, LoadConfigFromEnv())
		})
	}
}

func TestMemoryLimiter_Allow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{Limit: 2, Window: time.Minute})
	l.now = func() time.Time { return now }
	ctx := context.Background()

	d, err := l.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.Equal(t, Decision{Allowed: true, Remaining: 1}, d)

	d, _ = l.Allow(ctx, "ip-1")
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	now = now.Add(20 * time.Second)
	d, _ = l.Allow(ctx, "ip-1")
	assert.False(t, d.Allowed)
	assert.Equal(t, 40*time.Second, d.RetryAfter)

	// Other keys have their own budget
	d, _ = l.Allow(ctx, "ip-2")
	assert.True(t, d.Allowed)

	// A new window resets the counter
	now = now.Add(41 * time.Second)
	d, _ = l.Allow(ctx, "ip-1")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestMemoryLimiter_SweepsExpiredWindows(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{Limit: 1, Window: time.Second})
	l.now = func() time.Time { return now }

	for i := 0; i <= sweepThreshold; i++ {
		_, _ = l.Allow(context.Background(), fmt.Sprintf("client-%d", i))
	}
	now = now.Add(2 * time.Second)
	_, _ = l.Allow(context.Background(), "fresh")

	assert.Len(t, l.windows, 1)
}

func TestNewMemoryLimiter_Defaults(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(Config{})

	assert.Equal(t, Config{Limit: 10, Window: time.Minute}, l.cfg)
}

func TestNewRedisLimiter_Defaults(t *testing.T) {
	t.Parallel()

	l := NewRedisLimiter(nil, "", Config{Limit: -1})

	assert.Equal(t, "ratelimit", l.prefix)
	assert.Equal(t, Config{Limit: 10, Window: time.Minute}, l.cfg)
	assert.Equal(t, "ratelimit:signup:1.2.3.4", l.counterKey("signup:1.2.3.4"))
}

func TestRedisLimiter_Allow(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLimiter(client, "signup", Config{Limit: 2, Window: time.Minute})
	ctx := context.Background()

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, time.Minute, mr.TTL("signup:1.2.3.4"))

	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	mr.FastForward(15 * time.Second)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 45*time.Second, d.RetryAfter)

	mr.FastForward(46 * time.Second)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "counter should reset after the window")
}

func TestRedisLimiter_Allow_RepairsMissingExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLimiter(client, "signup", Config{Limit: 1, Window: time.Minute})
	require.NoError(t, mr.Set("signup:1.2.3.4", "5"))

	d, err := l.Allow(context.Background(), "1.2.3.4")

	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.Equal(t, time.Minute, mr.TTL("signup:1.2.3.4"))
}

func TestRedisLimiter_Allow_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")

	t.Run("incr failure", func(t *testing.T) {
		t.Parallel()
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, "signup", Config{Limit: 2, Window: time.Minute})
		mock.ExpectIncr("signup:k").SetErr(boom)

		_, err := l.Allow(context.Background(), "k")

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expire failure", func(t *testing.T) {
		t.Parallel()
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, "signup", Config{Limit: 2, Window: time.Minute})
		mock.ExpectIncr("signup:k").SetVal(1)
		mock.ExpectPExpire("signup:k", time.Minute).SetErr(boom)

		_, err := l.Allow(context.Background(), "k")

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pttl failure", func(t *testing.T) {
		t.Parallel()
		db, mock := redismock.NewClientMock()
		l := NewRedisLimiter(db, "signup", Config{Limit: 2, Window: time.Minute})
		mock.ExpectIncr("signup:k").SetVal(3)
		mock.ExpectPTTL("signup:k").SetErr(boom)

		_, err := l.Allow(context.Background(), "k")

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

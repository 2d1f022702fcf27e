package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the number of tracked keys above which expired windows are purged.
const sweepThreshold = 1024

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter はプロセス内メモリでカウンターを保持します。
// Redisが使えない場合のフォールバックで、上限はインスタンスごとに適用されます。
type MemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*window
	now     func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter はMemoryLimiterを生成します。
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg.normalized(),
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow increments the counter for key and reports whether the hit is within budget.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.windows) > sweepThreshold {
		for k, w := range l.windows {
			if !now.Before(w.resetAt) {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.cfg.Window)}
		l.windows[key] = w
	}
	w.count++

	return decide(w.count, l.cfg.Limit, w.resetAt.Sub(now)), nil
}

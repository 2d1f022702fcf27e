package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter はRedisを通じて全サーバーインスタンスでカウンターを共有します。
type RedisLimiter struct {
	client *redis.Client
	prefix string
	cfg    Config
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter はRedisLimiterを生成します。prefixが空の場合は"ratelimit"を使用します。
func NewRedisLimiter(client *redis.Client, prefix string, cfg Config) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		cfg:    cfg.normalized(),
	}
}

// counterKey returns the Redis key for a client key.
func (l *RedisLimiter) counterKey(key string) string {
	return fmt.Sprintf("%s:%s", l.prefix, key)
}

// Allow はkeyのカウンターを1増やし、上限内かどうかを返します。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.counterKey(key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	// ウィンドウ最初のアクセスで有効期限を設定する
	if count == 1 {
		if err := l.client.PExpire(ctx, k, l.cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate window: %w", err)
		}
		return decide(count, l.cfg.Limit, l.cfg.Window), nil
	}

	if count <= int64(l.cfg.Limit) {
		return decide(count, l.cfg.Limit, 0), nil
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read rate window: %w", err)
	}
	// 有効期限のないカウンターはキーを永久にブロックしてしまう
	if ttl < 0 {
		if err := l.client.PExpire(ctx, k, l.cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate window: %w", err)
		}
		ttl = l.cfg.Window
	}
	return decide(count, l.cfg.Limit, ttl), nil
}

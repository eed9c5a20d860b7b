package limiter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter allows up to limit events per key in each fixed window.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisLimiter builds a fixed-window limiter. Keys are stored as prefix:key.
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// WindowFor converts a token bucket rate and burst into the fixed window that
// admits burst events on average at the same rate.
func WindowFor(perSecond float64, burst int) time.Duration {
	seconds := float64(burst) / perSecond
	return time.Duration(math.Ceil(seconds*1000)) * time.Millisecond
}

func (l *RedisLimiter) key(key string) string {
	return fmt.Sprintf("%s:%s", l.prefix, key)
}

// Allow increments the counter for key and reports whether it is still within the
// limit. The window starts with the first event. The TTL is created in the same
// transaction as the increment, so a counter never outlives its window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, l.window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	count, err := incr.Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	return count <= l.limit, nil
}

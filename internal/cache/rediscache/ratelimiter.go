package rediscache

import (
	"context"
	"time"

	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter: the window starts with the first hit on a key.
type RateLimiter struct {
	c *redis.Client
}

func NewRateLimiter(addr string) *RateLimiter {
	return &RateLimiter{
		c: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (cache.Verdict, error) {
	n, err := rl.c.Incr(ctx, key).Result()
	if err != nil {
		return cache.Verdict{}, errors.Wrap(err, "redis ratelimit incr")
	}

	ttl, err := rl.c.PTTL(ctx, key).Result()
	if err != nil {
		return cache.Verdict{}, errors.Wrap(err, "redis ratelimit pttl")
	}
	// новый ключ или потерянный TTL
	if n == 1 || ttl < 0 {
		if err := rl.c.PExpire(ctx, key, window).Err(); err != nil {
			return cache.Verdict{}, errors.Wrap(err, "redis ratelimit expire")
		}
		ttl = window
	}

	return cache.Verdict{Allowed: n <= limit, Count: n, RetryAfter: ttl}, nil
}

func (rl *RateLimiter) Close() error {
	return rl.c.Close()
}

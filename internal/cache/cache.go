package cache

import (
	"context"
	"time"
)

// Store is a string-keyed byte store. A zero ttl means the key does not expire.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Verdict is the outcome of one rate limit check.
type Verdict struct {
	Allowed bool
	Count   int64
	// time until the current window resets
	RetryAfter time.Duration
}

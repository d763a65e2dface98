package memcache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const (
	DefaultSize          = 100_000
	DefaultSweepInterval = time.Minute
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// MemCache is an in-process store for single-instance runs and tests.
// Keys with a TTL live in an LRU of bounded size and are swept once expired.
// Keys without a TTL (the credential set) are never evicted.
type MemCache struct {
	lru *lru.Cache[string, entry]
	now func() time.Time

	mu         sync.Mutex
	pinned     map[string][]byte
	sweepEvery time.Duration
	nextSweep  time.Time
}

func New() *MemCache {
	c, err := NewWithSize(DefaultSize)
	if err != nil {
		// DefaultSize is positive
		panic(err)
	}
	return c
}

func NewWithSize(size int) (*MemCache, error) {
	l, err := lru.New[string, entry](size)
	if err != nil {
		return nil, errors.Wrap(err, "lru new")
	}
	return &MemCache{
		lru:        l,
		now:        time.Now,
		pinned:     make(map[string][]byte),
		sweepEvery: DefaultSweepInterval,
	}, nil
}

func (c *MemCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	v, ok := c.pinned[key]
	c.mu.Unlock()
	if ok {
		return clone(v), true, nil
	}

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return clone(e.value), true, nil
}

func (c *MemCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := clone(value)
	now := c.now()
	c.sweep(now)

	if ttl <= 0 {
		c.lru.Remove(key)
		c.mu.Lock()
		c.pinned[key] = v
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	delete(c.pinned, key)
	c.mu.Unlock()
	c.lru.Add(key, entry{value: v, expiresAt: now.Add(ttl)})
	return nil
}

func (c *MemCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.pinned, key)
	c.mu.Unlock()
	c.lru.Remove(key)
	return nil
}

// Len returns the number of entries held, expired or not.
func (c *MemCache) Len() int {
	c.mu.Lock()
	n := len(c.pinned)
	c.mu.Unlock()
	return n + c.lru.Len()
}

// sweep drops expired entries at most once per sweepEvery.
func (c *MemCache) sweep(now time.Time) {
	c.mu.Lock()
	due := !now.Before(c.nextSweep)
	if due {
		c.nextSweep = now.Add(c.sweepEvery)
	}
	c.mu.Unlock()
	if !due {
		return
	}

	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && e.expired(now) {
			c.lru.Remove(k)
		}
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

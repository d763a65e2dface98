package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetSetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)
	require.True(t, mr.Exists("shiptrack:k"))

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// удаление отсутствующего ключа не ошибка
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr()).WithPrefix("")

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "session_user:1", []byte("{}"), time.Minute))
	require.Equal(t, time.Minute, mr.TTL("session_user:1"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "session_user:1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())
}

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	ctx := context.Background()
	v, err := rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, v.Allowed)
	require.Equal(t, int64(1), v.Count)
	require.Equal(t, time.Minute, v.RetryAfter)

	mr.FastForward(20 * time.Second)
	v, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.True(t, v.Allowed)
	require.Equal(t, int64(2), v.Count)

	v, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.False(t, v.Allowed)
	require.Equal(t, int64(3), v.Count)
	// окно не продлевается последующими запросами
	require.Equal(t, 40*time.Second, v.RetryAfter)

	mr.FastForward(40 * time.Second)
	v, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.True(t, v.Allowed)
	require.Equal(t, int64(1), v.Count)
}

func TestRateLimiter_RestoresLostTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	require.NoError(t, mr.Set("rl:stale", "5"))
	v, err := rl.Allow(context.Background(), "rl:stale", 10, time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(6), v.Count)
	require.Equal(t, time.Minute, mr.TTL("rl:stale"))
}

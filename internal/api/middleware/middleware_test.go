package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/BearBump/ShipTrack/internal/cache/memcache"
	"github.com/BearBump/ShipTrack/internal/cache/rediscache"
	"github.com/BearBump/ShipTrack/internal/services/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func echoSID(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(CurrentStore(r).SessionID()))
}

func TestSessions_IssuesCookie(t *testing.T) {
	h := Sessions(session.NewManager(memcache.New()), "", time.Hour)(http.HandlerFunc(echoSID))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	require.Equal(t, DefaultCookieName, c.Name)
	require.True(t, c.HttpOnly)
	require.Equal(t, 3600, c.MaxAge)
	_, err := uuid.Parse(c.Value)
	require.NoError(t, err)
	require.Equal(t, c.Value, rec.Body.String())
}

func TestSessions_ReusesValidCookie(t *testing.T) {
	h := Sessions(session.NewManager(memcache.New()), "sid", 0)(http.HandlerFunc(echoSID))
	sid := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Empty(t, rec.Result().Cookies())
	require.Equal(t, sid, rec.Body.String())

	// мусорный cookie заменяется новым
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Len(t, rec.Result().Cookies(), 1)
	require.NotEqual(t, "../../etc", rec.Body.String())
}

func TestSessions_RestoresUser(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(memcache.New())
	sid := uuid.NewString()

	st, err := m.Open(ctx, sid)
	require.NoError(t, err)
	_, err = st.Register(ctx, "alice", "pw", "")
	require.NoError(t, err)

	h := Sessions(m, "sid", 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentStore(r).CurrentUser()
		require.True(t, ok)
		_, _ = w.Write([]byte(u.Username))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "alice", rec.Body.String())
}

type fakeLimiter struct {
	verdict cache.Verdict
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ int64, _ time.Duration) (cache.Verdict, error) {
	f.keys = append(f.keys, key)
	return f.verdict, f.err
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	deny := &fakeLimiter{verdict: cache.Verdict{Count: 2, RetryAfter: 1500 * time.Millisecond}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	RateLimit(deny, 1, time.Minute)(ok).ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2", rec.Header().Get("Retry-After"))
	require.Equal(t, []string{"ratelimit:ip:10.0.0.1"}, deny.keys)

	broken := &fakeLimiter{err: errors.New("redis down")}
	rec = httptest.NewRecorder()
	RateLimit(broken, 1, time.Minute)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	RateLimit(nil, 1, time.Minute)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := rediscache.NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	h := Sessions(session.NewManager(memcache.New()), "sid", 0)(
		RateLimit(rl, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})),
	)
	sid := uuid.NewString()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{200, 200, 429}, codes)

	mr.FastForward(time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRetryAfterSeconds(t *testing.T) {
	require.Equal(t, 60, retryAfterSeconds(0, time.Minute))
	require.Equal(t, 1, retryAfterSeconds(time.Millisecond, time.Minute))
	require.Equal(t, 30, retryAfterSeconds(30*time.Second, time.Minute))
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "hi", rec.Body.String())
}

func TestSessionStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{session.ErrMissingField, http.StatusBadRequest},
		{session.ErrDuplicateUsername, http.StatusConflict},
		{session.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("login: %w", session.ErrInvalidCredentials), http.StatusUnauthorized},
		{errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SessionStatus(tc.err), tc.err.Error())
	}
}

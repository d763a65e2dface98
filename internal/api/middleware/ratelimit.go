package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/BearBump/ShipTrack/internal/services/session"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (cache.Verdict, error)
}

// RateLimit allows limit requests per window for each browser session (or client IP).
// Limiter errors let the request through.
func RateLimit(l Limiter, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + clientKey(r)
			v, err := l.Allow(r.Context(), key, limit, window)
			if err != nil {
				slog.Warn("rate limiter failed", "key", key, "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}
			if !v.Allowed {
				slog.Warn("rate limit exceeded", "key", key, "count", v.Count)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(v.RetryAfter, window)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds rounds up and never reports less than one second.
func retryAfterSeconds(d, window time.Duration) int {
	if d <= 0 {
		d = window
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func clientKey(r *http.Request) string {
	if st, ok := session.FromContext(r.Context()); ok && st.SessionID() != "" {
		return "sid:" + st.SessionID()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

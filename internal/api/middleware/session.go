package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/ShipTrack/internal/services/session"
	"github.com/google/uuid"
)

const DefaultCookieName = "shiptrack_sid"

// Sessions makes sure every request carries a browser session id cookie
// and puts the opened session.Store into the request context.
func Sessions(m *session.Manager, cookieName string, maxAge time.Duration) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c := &http.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				if maxAge > 0 {
					c.MaxAge = int(maxAge.Seconds())
				}
				http.SetCookie(w, c)
			}

			st, err := m.Open(r.Context(), sid)
			if err != nil {
				slog.Error("open session", "sid", sid, "error", err.Error())
				http.Error(w, "session storage unavailable", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), st)))
		})
	}
}

// CurrentStore returns the session opened by Sessions. It panics when the middleware is missing.
func CurrentStore(r *http.Request) *session.Store {
	st, ok := session.FromContext(r.Context())
	if !ok {
		panic("session middleware is not installed")
	}
	return st
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/BearBump/ShipTrack/internal/services/session"
)

// SessionStatus maps a session operation error to an HTTP status.
// Unknown errors are 500.
func SessionStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

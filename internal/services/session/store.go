package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/pkg/errors"
)

// Store is the session of one browser: the current user plus write-through persistence.
type Store struct {
	m   *Manager
	sid string
	key string

	mu   sync.Mutex
	user *models.User
}

func (s *Store) SessionID() string { return s.sid }

// CurrentUser reports the logged-in user, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) Register(ctx context.Context, username, password, email string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrMissingField
	}

	s.m.mu.Lock()
	creds, err := s.m.loadCredentials(ctx)
	if err != nil {
		s.m.mu.Unlock()
		return models.User{}, err
	}
	for _, c := range creds {
		if c.Username == username {
			s.m.mu.Unlock()
			return models.User{}, ErrDuplicateUsername
		}
	}
	cred := models.Credential{Username: username, Password: password, Email: email}
	err = s.m.saveCredentials(ctx, append(creds, cred))
	s.m.mu.Unlock()
	if err != nil {
		return models.User{}, err
	}

	u := cred.User()
	if err := s.setUser(ctx, u); err != nil {
		return models.User{}, err
	}
	s.m.publish(ctx, models.SessionEventRegistered, u.Username, s.sid)
	return u, nil
}

func (s *Store) Login(ctx context.Context, username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrMissingField
	}

	s.m.mu.Lock()
	creds, err := s.m.loadCredentials(ctx)
	s.m.mu.Unlock()
	if err != nil {
		return models.User{}, err
	}

	for _, c := range creds {
		if c.Username == username && c.Password == password {
			u := c.User()
			if err := s.setUser(ctx, u); err != nil {
				return models.User{}, err
			}
			s.m.publish(ctx, models.SessionEventLoggedIn, u.Username, s.sid)
			return u, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}

// Logout clears the session. A failed delete of the persisted entry is only logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if err := s.m.kv.Delete(ctx, s.key); err != nil {
		slog.Warn("delete session", "sid", s.sid, "error", err.Error())
	}
	if prev != nil {
		s.m.publish(ctx, models.SessionEventLoggedOut, prev.Username, s.sid)
	}
}

func (s *Store) setUser(ctx context.Context, u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}

	if err := s.m.kv.Set(ctx, s.key, b, s.m.sessionTTL); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok
}

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/BearBump/ShipTrack/internal/broker/messages"
	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Persisted keys. Per-browser sessions use SessionKey + ":" + sid.
const (
	UsersKey   = "users"
	SessionKey = "session_user"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Manager owns the persisted credential set and opens per-browser session stores.
type Manager struct {
	kv cache.Store

	// guards read-modify-write of UsersKey
	mu sync.Mutex

	sessionTTL time.Duration

	publisher Publisher
	topic     string

	now func() time.Time
}

func NewManager(kv cache.Store) *Manager {
	return &Manager{kv: kv, now: time.Now}
}

func (m *Manager) WithSessionTTL(ttl time.Duration) *Manager {
	if ttl > 0 {
		m.sessionTTL = ttl
	}
	return m
}

func (m *Manager) WithPublisher(p Publisher, topic string) *Manager {
	m.publisher = p
	m.topic = topic
	return m
}

// DemoCredentials are seeded into an empty credential set.
func DemoCredentials() []models.Credential {
	return []models.Credential{
		{Username: "demo1", Password: "demo1", Email: "demo1@example.com"},
		{Username: "demo2", Password: "demo2", Email: "demo2@example.com"},
	}
}

// SeedDemoUsers writes the demo accounts when no credential set is persisted yet.
func (m *Manager) SeedDemoUsers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok, err := m.kv.Get(ctx, UsersKey)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	slog.Info("seeding demo users", "count", len(DemoCredentials()))
	return m.saveCredentials(ctx, DemoCredentials())
}

// Open loads the session for sid. An empty sid uses the single-session key.
// Absent or malformed session data yields a store without a user.
func (m *Manager) Open(ctx context.Context, sid string) (*Store, error) {
	key := SessionKey
	if sid != "" {
		key = SessionKey + ":" + sid
	}
	s := &Store{m: m, sid: sid, key: key}

	b, ok, err := m.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}

	var u models.User
	if err := json.Unmarshal(b, &u); err != nil || u.Username == "" {
		slog.Warn("dropping malformed session", "sid", sid)
		if err := m.kv.Delete(ctx, key); err != nil {
			slog.Warn("delete malformed session", "sid", sid, "error", err.Error())
		}
		return s, nil
	}
	s.user = &u
	return s, nil
}

// CredentialCount returns the number of persisted credential records.
func (m *Manager) CredentialCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds, err := m.loadCredentials(ctx)
	if err != nil {
		return 0, err
	}
	return len(creds), nil
}

func (m *Manager) loadCredentials(ctx context.Context) ([]models.Credential, error) {
	b, ok, err := m.kv.Get(ctx, UsersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var creds []models.Credential
	if err := json.Unmarshal(b, &creds); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return creds, nil
}

func (m *Manager) saveCredentials(ctx context.Context, creds []models.Credential) error {
	if creds == nil {
		creds = []models.Credential{}
	}
	b, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "encode users")
	}
	return m.kv.Set(ctx, UsersKey, b, 0)
}

// publish is best-effort: the session change already happened.
func (m *Manager) publish(ctx context.Context, eventType, username, sid string) {
	if m.publisher == nil || m.topic == "" {
		return
	}
	msg := messages.SessionEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Username:   username,
		SessionID:  sid,
		OccurredAt: m.now().UTC(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal session event", "error", err.Error())
		return
	}
	if err := m.publisher.Publish(ctx, m.topic, []byte(username), b); err != nil {
		slog.Error("publish session event", "type", eventType, "username", username, "error", err.Error())
	}
}

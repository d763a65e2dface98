package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/BearBump/ShipTrack/internal/broker/messages"
	"github.com/BearBump/ShipTrack/internal/cache/memcache"
	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	events []messages.SessionEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var e messages.SessionEvent
	if err := json.Unmarshal(value, &e); err != nil {
		return err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, e)
	return p.err
}

func openStore(t *testing.T, m *Manager, sid string) *Store {
	t.Helper()
	s, err := m.Open(context.Background(), sid)
	require.NoError(t, err)
	return s
}

func TestRegister_ThenCurrentUser(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memcache.New())

	for i, name := range []string{"alice", "Bob", "ü-user", "x"} {
		s := openStore(t, m, fmt.Sprintf("sid-%d", i))
		u, err := s.Register(ctx, name, "pw", "")
		require.NoError(t, err)
		require.Equal(t, name, u.Username)

		cur, ok := s.CurrentUser()
		require.True(t, ok)
		require.Equal(t, name, cur.Username)
	}
}

func TestRegister_MissingField(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memcache.New())
	s := openStore(t, m, "")

	_, err := s.Register(ctx, "", "pw", "")
	require.ErrorIs(t, err, ErrMissingField)
	_, err = s.Register(ctx, "alice", "", "")
	require.ErrorIs(t, err, ErrMissingField)

	_, ok := s.CurrentUser()
	require.False(t, ok)
	n, err := m.CredentialCount(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRegister_Duplicate_KeepsCount(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memcache.New())
	require.NoError(t, m.SeedDemoUsers(ctx))

	before, err := m.CredentialCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, before)

	s := openStore(t, m, "sid")
	_, err = s.Register(ctx, "demo1", "other", "x@example.com")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	after, err := m.CredentialCount(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
	_, ok := s.CurrentUser()
	require.False(t, ok)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memcache.New())
	s := openStore(t, m, "a")

	_, err := s.Register(ctx, "alice", "secret", "alice@example.com")
	require.NoError(t, err)
	s.Logout(ctx)

	other := openStore(t, m, "b")
	_, err = other.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = other.Login(ctx, "ALICE", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = other.Login(ctx, "nobody", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = other.Login(ctx, "alice", "")
	require.ErrorIs(t, err, ErrMissingField)
	_, ok := other.CurrentUser()
	require.False(t, ok)

	u, err := other.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, models.User{Username: "alice", Email: "alice@example.com"}, u)

	cur, ok := other.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "alice", cur.Username)
}

func TestLogout_ClearsAnyState(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memcache.New())
	require.NoError(t, m.SeedDemoUsers(ctx))

	// без пользователя
	s := openStore(t, m, "sid")
	s.Logout(ctx)
	_, ok := s.CurrentUser()
	require.False(t, ok)

	_, err := s.Login(ctx, "demo2", "demo2")
	require.NoError(t, err)
	s.Logout(ctx)
	_, ok = s.CurrentUser()
	require.False(t, ok)

	// и после перезагрузки из хранилища
	reopened := openStore(t, m, "sid")
	_, ok = reopened.CurrentUser()
	require.False(t, ok)
}

func TestOpen_LoadsPersistedSession(t *testing.T) {
	ctx := context.Background()
	kv := memcache.New()
	m := NewManager(kv)
	require.NoError(t, m.SeedDemoUsers(ctx))

	s := openStore(t, m, "browser-1")
	_, err := s.Login(ctx, "demo1", "demo1")
	require.NoError(t, err)

	// новый менеджер поверх того же хранилища, как после рестарта процесса
	again := openStore(t, NewManager(kv), "browser-1")
	u, ok := again.CurrentUser()
	require.True(t, ok)
	require.Equal(t, models.User{Username: "demo1", Email: "demo1@example.com"}, u)

	// чужая сессия пустая
	_, ok = openStore(t, m, "browser-2").CurrentUser()
	require.False(t, ok)
}

func TestOpen_MalformedSessionIsNoUser(t *testing.T) {
	ctx := context.Background()
	kv := memcache.New()
	require.NoError(t, kv.Set(ctx, SessionKey, []byte("{not json"), 0))
	require.NoError(t, kv.Set(ctx, SessionKey+":s2", []byte(`{"email":"x"}`), 0))

	m := NewManager(kv)
	s := openStore(t, m, "")
	_, ok := s.CurrentUser()
	require.False(t, ok)

	_, present, err := kv.Get(ctx, SessionKey)
	require.NoError(t, err)
	require.False(t, present)

	_, ok = openStore(t, m, "s2").CurrentUser()
	require.False(t, ok)
}

func TestPersistenceLayout(t *testing.T) {
	ctx := context.Background()
	kv := memcache.New()
	m := NewManager(kv)
	s := openStore(t, m, "")

	_, err := s.Register(ctx, "alice", "pw", "")
	require.NoError(t, err)

	users, ok, err := kv.Get(ctx, UsersKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"username":"alice","password":"pw"}]`, string(users))

	sess, ok, err := kv.Get(ctx, SessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"username":"alice"}`, string(sess))
}

func TestSeedDemoUsers_OnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	kv := memcache.New()
	require.NoError(t, kv.Set(ctx, UsersKey, []byte(`[]`), 0))

	m := NewManager(kv)
	require.NoError(t, m.SeedDemoUsers(ctx))
	n, err := m.CredentialCount(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRegister_MalformedUsers(t *testing.T) {
	ctx := context.Background()
	kv := memcache.New()
	require.NoError(t, kv.Set(ctx, UsersKey, []byte(`{"oops":1}`), 0))

	s := openStore(t, NewManager(kv), "")
	_, err := s.Register(ctx, "alice", "pw", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode users")
}

func TestRegister_ConcurrentUniqueness(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memcache.New())

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Open(ctx, fmt.Sprintf("sid-%d", i))
			if err != nil {
				errs <- err
				return
			}
			_, err = s.Register(ctx, "same", "pw", "")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicateUsername)
	}
	require.Equal(t, 1, ok)
	count, err := m.CredentialCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSessionTTL(t *testing.T) {
	ctx := context.Background()
	kv := &ttlRecorder{MemCache: memcache.New(), ttls: map[string]time.Duration{}}
	m := NewManager(kv).WithSessionTTL(time.Hour)

	s := openStore(t, m, "sid")
	_, err := s.Register(ctx, "alice", "pw", "")
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), kv.ttls[UsersKey])
	require.Equal(t, time.Hour, kv.ttls[SessionKey+":sid"])
}

func TestPublishesSessionEvents(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	m := NewManager(memcache.New()).WithPublisher(pub, "shiptrack.session.events")

	s := openStore(t, m, "sid")
	_, err := s.Register(ctx, "alice", "pw", "")
	require.NoError(t, err)
	s.Logout(ctx)
	_, err = s.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = s.Login(ctx, "alice", "bad")
	require.Error(t, err)

	require.Len(t, pub.events, 3)
	require.Equal(t, models.SessionEventRegistered, pub.events[0].Type)
	require.Equal(t, models.SessionEventLoggedOut, pub.events[1].Type)
	require.Equal(t, models.SessionEventLoggedIn, pub.events[2].Type)
	require.Equal(t, "sid", pub.events[2].SessionID)
	require.NotEmpty(t, pub.events[0].EventID)
	require.NotEqual(t, pub.events[0].EventID, pub.events[1].EventID)
	require.Equal(t, "shiptrack.session.events", pub.topics[0])
}

func TestPublishFailureDoesNotFailLogin(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: fmt.Errorf("broker down")}
	m := NewManager(memcache.New()).WithPublisher(pub, "t")
	require.NoError(t, m.SeedDemoUsers(ctx))

	s := openStore(t, m, "sid")
	_, err := s.Login(ctx, "demo1", "demo1")
	require.NoError(t, err)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	s := openStore(t, NewManager(memcache.New()), "sid")
	got, ok := FromContext(NewContext(context.Background(), s))
	require.True(t, ok)
	require.Same(t, s, got)
	require.Equal(t, "sid", got.SessionID())
}

type ttlRecorder struct {
	*memcache.MemCache
	ttls map[string]time.Duration
}

func (r *ttlRecorder) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.ttls[key] = ttl
	return r.MemCache.Set(ctx, key, value, ttl)
}

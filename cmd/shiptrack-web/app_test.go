package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/BearBump/ShipTrack/config"
	"github.com/BearBump/ShipTrack/internal/api/middleware"
	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/BearBump/ShipTrack/internal/cache/memcache"
	"github.com/BearBump/ShipTrack/internal/services/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _, _ []byte) error {
	p.topics = append(p.topics, topic)
	return nil
}

func memoryFactories(pub session.Publisher) webFactories {
	return webFactories{
		newStore: func(*config.Config) (cache.Store, func(), error) {
			return memcache.New(), nil, nil
		},
		newLimiter: func(*config.Config) (middleware.Limiter, func()) { return nil, nil },
		newPublisher: func(*config.Config) (session.Publisher, func()) {
			if pub == nil {
				return nil, nil
			}
			return pub, nil
		},
	}
}

func TestBuildWebDeps_SeedsDemoUsers(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}

	d, closeFn, err := buildWebDeps(ctx, &config.Config{}, "", memoryFactories(pub))
	require.NoError(t, err)
	defer closeFn()

	n, err := d.Sessions.CredentialCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, d.Shipments.All(), 2)
	require.Equal(t, defaultSessionTTL, d.SessionTTL)
	require.Nil(t, d.Limiter)

	st, err := d.Sessions.Open(ctx, "sid")
	require.NoError(t, err)
	_, err = st.Login(ctx, "demo1", "demo1")
	require.NoError(t, err)
	require.Equal(t, []string{defaultTopic}, pub.topics)
}

func TestBuildWebDeps_NoSeedAndCatalogFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
shipments:
  - tracking_code: "BOX1"
    product_name: "Box"
    images: ["/static/img/box.svg"]
    status: "processing"
    estimated_delivery: "2025-10-01"
    current_location: {city: "Oslo", country: "Norway", lat: 59.9, lng: 10.7}
    service_priority: "standard"
    pricing: {subtotal: 10, shipping: 5, total: 15, currency: "EUR"}
    checkpoints:
      - {id: "1", date: "2025-09-01", location: "Oslo", status: "current", description: "Packed", lat: 59.9, lng: 10.7}
`), 0o600))

	no := false
	cfg := &config.Config{ShipTrack: config.ShipTrackConfig{CatalogPath: p, SeedDemoUsers: &no}}

	d, closeFn, err := buildWebDeps(context.Background(), cfg, "", memoryFactories(nil))
	require.NoError(t, err)
	defer closeFn()

	n, err := d.Sessions.CredentialCount(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	all := d.Shipments.All()
	require.Len(t, all, 1)
	require.Equal(t, "BOX1", all[0].TrackingCode)
}

func TestBuildWebDeps_BadCatalog(t *testing.T) {
	cfg := &config.Config{ShipTrack: config.ShipTrackConfig{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")}}
	_, closeFn, err := buildWebDeps(context.Background(), cfg, "", memoryFactories(nil))
	require.Error(t, err)
	closeFn()
}

func TestDefaultWebFactories(t *testing.T) {
	f := defaultWebFactories()

	_, _, err := f.newStore(&config.Config{ShipTrack: config.ShipTrackConfig{StorageBackend: "etcd"}})
	require.Error(t, err)

	st, closeFn, err := f.newStore(&config.Config{})
	require.NoError(t, err)
	require.IsType(t, &memcache.MemCache{}, st)
	require.Nil(t, closeFn)

	l, _ := f.newLimiter(&config.Config{})
	require.Nil(t, l)

	p, _ := f.newPublisher(&config.Config{})
	require.Nil(t, p)
}

func TestDefaultWebFactories_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{
		Redis:     config.RedisConfig{Host: mr.Host(), Port: port},
		ShipTrack: config.ShipTrackConfig{StorageBackend: "redis", APIRateLimitPerMinute: 5},
	}
	f := defaultWebFactories()

	d, closeFn, err := buildWebDeps(context.Background(), cfg, "", f)
	require.NoError(t, err)
	defer closeFn()

	require.NotNil(t, d.Limiter)
	require.Equal(t, 5, d.RateLimitPerMinute)
	require.True(t, mr.Exists("shiptrack:users"))
}

func TestRunWeb_ServesAndStops(t *testing.T) {
	dir := t.TempDir()
	sw := filepath.Join(dir, "swagger.json")
	require.NoError(t, os.WriteFile(sw, []byte(`{"swagger":"2.0"}`), 0o600))

	d, closeFn, err := buildWebDeps(context.Background(), &config.Config{}, sw, memoryFactories(nil))
	require.NoError(t, err)
	defer closeFn()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runWeb(ctx, webOpts{
			httpAddr: "127.0.0.1:0",
			onListen: func(addr string) { addrCh <- addr },
		}, d)
	}()
	addr := <-addrCh

	resp, err := http.Get("http://" + addr + "/swagger.json")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"swagger"`)

	resp, err = http.Get("http://" + addr + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting server to stop")
	}
}

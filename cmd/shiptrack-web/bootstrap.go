package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/ShipTrack/config"
	"github.com/BearBump/ShipTrack/internal/api/middleware"
	"github.com/BearBump/ShipTrack/internal/broker/kafka"
	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/BearBump/ShipTrack/internal/cache/memcache"
	"github.com/BearBump/ShipTrack/internal/cache/rediscache"
	"github.com/BearBump/ShipTrack/internal/catalog"
	"github.com/BearBump/ShipTrack/internal/services/notify"
	"github.com/BearBump/ShipTrack/internal/services/session"
	"github.com/BearBump/ShipTrack/internal/services/shipments"
	"github.com/BearBump/ShipTrack/internal/storage/pgstore"
	"github.com/BearBump/ShipTrack/internal/web"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultTopic        = "shiptrack.session.events"
	defaultSessionTTL   = 7 * 24 * time.Hour
	defaultRateLimit    = 120
	sceneCacheTTL       = 10 * time.Minute
	flashTTL            = 5 * time.Minute
	postgresStartupWait = 60 * time.Second
)

type webFactories struct {
	newStore     func(cfg *config.Config) (store cache.Store, closeFn func(), err error)
	newLimiter   func(cfg *config.Config) (middleware.Limiter, func())
	newPublisher func(cfg *config.Config) (session.Publisher, func())
}

func defaultWebFactories() webFactories {
	return webFactories{
		newStore: func(cfg *config.Config) (cache.Store, func(), error) {
			switch cfg.ShipTrack.StorageBackend {
			case "", "memory":
				return memcache.New(), nil, nil
			case "redis":
				rc := rediscache.New(cfg.Redis.Addr())
				return rc, func() { _ = rc.Close() }, nil
			case "postgres":
				st, err := openPostgresWithRetry(context.Background(), cfg.Database, postgresStartupWait)
				if err != nil {
					return nil, nil, err
				}
				return st, st.Close, nil
			default:
				return nil, nil, fmt.Errorf("unknown storage_backend %q", cfg.ShipTrack.StorageBackend)
			}
		},
		newLimiter: func(cfg *config.Config) (middleware.Limiter, func()) {
			if cfg.Redis.Host == "" {
				return nil, nil
			}
			rl := rediscache.NewRateLimiter(cfg.Redis.Addr())
			return rl, func() { _ = rl.Close() }
		},
		newPublisher: func(cfg *config.Config) (session.Publisher, func()) {
			if !cfg.Kafka.Enabled() {
				return nil, nil
			}
			p := kafka.NewProducer(cfg.Kafka.Brokers())
			return p, func() { _ = p.Close() }
		},
	}
}

func openPostgresWithRetry(ctx context.Context, db config.DatabaseConfig, wait time.Duration) (*pgstore.Storage, error) {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgstore.New(ctx, db.ConnString(), pgstore.WithMaxConns(db.MaxConns))
		if err == nil {
			return st, nil
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	return nil, fmt.Errorf("postgres is not ready after %s: %v", wait, lastErr)
}

// buildWebDeps wires the page shell from config. closeFn releases everything that was opened.
func buildWebDeps(ctx context.Context, cfg *config.Config, swaggerPath string, f webFactories) (web.Deps, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	validate := config.BoolOr(cfg.ShipTrack.ValidateCatalog, true)
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.ShipTrack.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.ShipTrack.CatalogPath, validate)
	} else {
		cat, err = catalog.New(catalog.SampleShipments(), validate)
	}
	if err != nil {
		return web.Deps{}, closeAll, err
	}

	store, closeStore, err := f.newStore(cfg)
	if err != nil {
		return web.Deps{}, closeAll, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	sessionTTL := time.Duration(cfg.ShipTrack.SessionTTLSeconds) * time.Second
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	mgr := session.NewManager(store).WithSessionTTL(sessionTTL)

	if pub, closePub := f.newPublisher(cfg); pub != nil {
		topic := cfg.Kafka.SessionEventsTopicName
		if topic == "" {
			topic = defaultTopic
		}
		mgr.WithPublisher(pub, topic)
		if closePub != nil {
			closers = append(closers, closePub)
		}
		slog.Info("session events enabled", "topic", topic)
	}

	if config.BoolOr(cfg.ShipTrack.SeedDemoUsers, true) {
		if err := mgr.SeedDemoUsers(ctx); err != nil {
			return web.Deps{}, closeAll, err
		}
	}

	d := web.Deps{
		Sessions: mgr,
		Shipments: shipments.New(cat,
			shipments.WithMapPadding(cfg.ShipTrack.MapPadding),
			shipments.WithSceneCache(store, sceneCacheTTL),
		),
		Flash:       notify.NewFlash(store, flashTTL),
		CookieName:  cfg.ShipTrack.SessionCookieName,
		SessionTTL:  sessionTTL,
		SwaggerPath: swaggerPath,
	}

	if l, closeLimiter := f.newLimiter(cfg); l != nil {
		d.Limiter = l
		d.RateLimitPerMinute = cfg.ShipTrack.APIRateLimitPerMinute
		if d.RateLimitPerMinute <= 0 {
			d.RateLimitPerMinute = defaultRateLimit
		}
		if closeLimiter != nil {
			closers = append(closers, closeLimiter)
		}
	}

	slog.Info("shiptrack wired",
		"backend", cfg.ShipTrack.StorageBackend,
		"shipments", cat.Len(),
		"rate_limit", d.RateLimitPerMinute,
	)
	return d, closeAll, nil
}

type webApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    webOpts
	deps    web.Deps
	closeFn func()
}

func mustBootstrapWeb() *webApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	deps, closeFn, err := buildWebDeps(ctx, cfg, os.Getenv("swaggerPath"), defaultWebFactories())
	if err != nil {
		closeFn()
		cancel()
		panic(err)
	}

	httpAddr := cfg.ShipTrack.HTTPAddr
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	return &webApp{
		ctx:     ctx,
		cancel:  cancel,
		opts:    webOpts{httpAddr: httpAddr},
		deps:    deps,
		closeFn: closeFn,
	}
}

func (a *webApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.closeFn != nil {
		a.closeFn()
	}
}

func (a *webApp) Run() error {
	return runWeb(a.ctx, a.opts, a.deps)
}

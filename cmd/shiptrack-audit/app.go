package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/ShipTrack/config"
	"github.com/BearBump/ShipTrack/internal/broker/kafka"
	"github.com/BearBump/ShipTrack/internal/services/audit"
	"github.com/BearBump/ShipTrack/internal/services/janitor"
	"github.com/BearBump/ShipTrack/internal/storage/pgstore"
)

const (
	defaultTopic         = "shiptrack.session.events"
	defaultConsumerGroup = "shiptrack-audit"
	defaultAuditAddr     = ":8082"
)

// repository is what the audit worker needs from Postgres.
type repository interface {
	audit.Repository
	janitor.Purger
	Ping(ctx context.Context) error
}

type eventConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
	Close() error
}

type auditFactories struct {
	newStorage  func(cfg *config.Config) (repo repository, closeFn func(), err error)
	newConsumer func(cfg *config.Config, topic, group string) eventConsumer
}

func defaultAuditFactories() auditFactories {
	return auditFactories{
		newStorage: func(cfg *config.Config) (repository, func(), error) {
			st, err := pgstore.New(context.Background(), cfg.Database.ConnString(), pgstore.WithMaxConns(cfg.Database.MaxConns))
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newConsumer: func(cfg *config.Config, topic, group string) eventConsumer {
			return kafka.NewConsumer(cfg.Kafka.Brokers(), topic, group)
		},
	}
}

func RunAudit(ctx context.Context, cfg *config.Config, swaggerPath string, f auditFactories) error {
	if !cfg.Kafka.Enabled() {
		return fmt.Errorf("kafka.host is required for the audit worker")
	}
	topic := cfg.Kafka.SessionEventsTopicName
	if topic == "" {
		topic = defaultTopic
	}
	group := cfg.ShipTrack.KafkaConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	httpAddr := cfg.ShipTrack.AuditHTTPAddr
	if httpAddr == "" {
		httpAddr = defaultAuditAddr
	}
	purgeInterval := time.Duration(cfg.ShipTrack.PurgeIntervalSeconds) * time.Second

	repo, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	rec := audit.NewRecorder(repo)
	jan := janitor.New(repo, purgeInterval)

	consumer := f.newConsumer(cfg, topic, group)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)
	go func() {
		slog.Info("kafka consumer started", "topic", topic, "group", group)
		errCh <- consumer.Consume(ctx, func(key, value []byte) error {
			return rec.Handle(ctx, key, value)
		})
	}()
	go func() { errCh <- jan.Run(ctx) }()
	go func() {
		errCh <- runAuditHTTPServer(ctx, auditHTTPOpts{
			httpAddr:    httpAddr,
			swaggerPath: swaggerPath,
			recorder:    rec,
			janitor:     jan,
			ready:       repo.Ping,
		})
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

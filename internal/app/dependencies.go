package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/marksousa/testecomerc/internal/domain"
	"github.com/marksousa/testecomerc/internal/messaging/kafka"
	"github.com/marksousa/testecomerc/internal/storage/memory"
	"github.com/marksousa/testecomerc/internal/storage/postgres"
)

// Dependencies groups the storage and messaging collaborators Run wires the
// services with.
type Dependencies struct {
	Orders    domain.OrderRepository
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Outbox    domain.OutboxRepository

	Publisher domain.NotificationPublisher

	store    *postgres.Store
	producer *kafka.Producer
}

// buildStorage picks PostgreSQL when a DSN is configured and the in-memory
// twin otherwise.
func buildStorage(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	deps := &Dependencies{}

	if cfg.DatabaseURL == "" {
		logger.Info("no database configured, using in-memory storage")
		outbox := memory.NewOutboxRepository()
		deps.Outbox = outbox
		deps.Orders = memory.NewOrderRepository(outbox)
		deps.Customers = memory.NewCustomerRepository()
		deps.Products = memory.NewProductRepository()
		return deps, nil
	}

	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	deps.store = store
	deps.Orders = postgres.NewOrderRepository(store)
	deps.Customers = postgres.NewCustomerRepository(store)
	deps.Products = postgres.NewProductRepository(store)
	deps.Outbox = postgres.NewOutboxRepository(store)
	logger.Info("postgres storage initialized")

	return deps, nil
}

// buildPublisher connects to Kafka when brokers are configured; without them
// notifications are written to the log so local runs still drain the outbox.
func (d *Dependencies) buildPublisher(cfg Config, logger *log.Entry) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, notifications go to the log")
		d.Publisher = newLogPublisher(logger)
		return
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, notifications go to the log")
		d.Publisher = newLogPublisher(logger)
		return
	}

	d.producer = producer
	d.Publisher = kafka.NewNotifier(producer, cfg.NotificationsTopic)
	logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
}

// Close releases everything buildStorage and buildPublisher opened.
func (d *Dependencies) Close(logger *log.Entry) {
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}

// Ping reports storage health; in-memory storage is always healthy.
func (d *Dependencies) Ping(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Ping(ctx)
}

// logPublisher is the fallback notification sink for runs without Kafka.
type logPublisher struct {
	logger *log.Entry
}

func newLogPublisher(logger *log.Entry) *logPublisher {
	return &logPublisher{logger: logger.WithField("component", "log-publisher")}
}

func (p *logPublisher) Publish(message domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"event_type":   message.EventType,
		"aggregate_id": message.AggregateID,
		"payload":      string(message.Payload),
	}).Info("notification published")
	return nil
}

var _ domain.NotificationPublisher = (*logPublisher)(nil)

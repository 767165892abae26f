package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storefrontserver "github.com/Apurer/storefront-api/go"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
	orderskafka "github.com/Apurer/storefront-api/internal/domains/orders/adapters/events/kafka"
	ordersworkflows "github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/storefront-api/internal/platform/kafka"
	"github.com/Apurer/storefront-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-api/internal/platform/postgres"
	platformredis "github.com/Apurer/storefront-api/internal/platform/redis"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, storage, events and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	svc := buildServices(repos, cfg, publisher, instruments)

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, repos, logger); err != nil {
			logger.Warn("failed to seed demo data", slog.String("error", err.Error()))
		}
	}
	if cfg.SessionPurgeInterval > 0 {
		go runSessionPurger(ctx, repos.sessions, cfg.SessionPurgeInterval, logger)
	}

	var checkout ordersports.CheckoutOrchestrator = ordersworkflows.NewInlineCheckoutWorkflows(svc.orders)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		checkout = ordersworkflows.NewTemporalCheckoutWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	responder := storefrontserver.NewResponder("")
	handlers := storefrontserver.ApiHandleFunctions{
		SessionAPI: storefrontserver.NewSessionAPI(svc.identity, responder),
		AccountAPI: storefrontserver.NewAccountAPI(svc.identity, responder),
		ProductAPI: storefrontserver.NewProductAPI(svc.catalog, responder),
		CartAPI:    storefrontserver.NewCartAPI(svc.carts, responder),
		OrderAPI:   storefrontserver.NewOrderAPI(svc.orders, checkout, responder),
		TableAPI:   storefrontserver.NewTableAPI(svc.tables, responder),
		Sessions:   storefrontserver.NewSessionMiddleware(svc.identity, responder),
	}

	router := storefrontserver.NewRouter(handlers, otelgin.Middleware(serviceName))
	addr := cfg.Addr()
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// openStores connects Postgres and Redis when configured, migrates the schema
// and returns the adapters. Unreachable backends fall back to memory.
func openStores(ctx context.Context, cfg Config, logger *slog.Logger) (stores, func(), error) {
	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.Postgres(), logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanupDB()
			return stores{}, nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
		}
	}
	redisClient, cleanupRedis := platformredis.ConnectOrFallback(ctx, cfg.Redis, logger)
	var rdb goredis.UniversalClient
	if redisClient != nil {
		rdb = redisClient
	}
	return buildStores(db, rdb, cfg, logger), func() {
		cleanupRedis()
		cleanupDB()
	}, nil
}

func buildPublisher(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, order events will not be published")
		return ordersports.NoopPublisher{}, func() {}
	}
	producer, err := platformkafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("failed to configure kafka producer, order events will not be published", slog.String("error", err.Error()))
		return ordersports.NoopPublisher{}, func() {}
	}
	logger.Info("order events publishing to kafka", slog.String("topic", cfg.KafkaOrderTopic))
	return orderskafka.NewPublisher(producer, cfg.KafkaOrderTopic), func() { _ = producer.Close() }
}

// runSessionPurger deletes expired sessions every interval until ctx is done.
func runSessionPurger(ctx context.Context, purger identityports.SessionPurger, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := purger.PurgeExpired(ctx, now)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions purged", slog.Int64("removed", removed))
			}
		}
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

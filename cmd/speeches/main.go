package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/speeches/internal/config"
	dbRedis "github.com/kailas-cloud/speeches/internal/db/redis"
	"github.com/kailas-cloud/speeches/internal/events"
	logpkg "github.com/kailas-cloud/speeches/internal/logger"
	"github.com/kailas-cloud/speeches/internal/metrics"
	"github.com/kailas-cloud/speeches/internal/repository/elastic"
	"github.com/kailas-cloud/speeches/internal/repository/memory"
	speechrepo "github.com/kailas-cloud/speeches/internal/repository/speech"
	"github.com/kailas-cloud/speeches/internal/repository/sqlstore"
	chiTransport "github.com/kailas-cloud/speeches/internal/transport/chi"
	healthuc "github.com/kailas-cloud/speeches/internal/usecase/health"
	speechuc "github.com/kailas-cloud/speeches/internal/usecase/speech"
	"github.com/kailas-cloud/speeches/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting speeches API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("events_enabled", cfg.Events.Enabled),
	)

	ctx := context.Background()

	// Register store metrics explicitly (no init())
	metrics.RegisterStoreMetrics()

	repo, pinger, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open record store", zap.Error(err))
	}
	defer closeStore()
	logger.Info("Record store ready", zap.String("driver", cfg.Storage.Driver))

	speechSvc := speechuc.New(speechuc.NewInstrumentedRepository(repo, cfg.Storage.Driver, logger))

	// Pass nil interface (not typed nil pointer!) if events are disabled.
	// Go gotcha: (*events.Publisher)(nil) wrapped in BrokerChecker != nil.
	var broker healthuc.BrokerChecker
	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(events.Config{
			Brokers:      cfg.Events.Brokers,
			Topic:        cfg.Events.Topic,
			WriteTimeout: time.Duration(cfg.Events.WriteTimeoutSec) * time.Second,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Warn("Error closing event publisher", zap.Error(err))
			}
		}()
		speechSvc = speechSvc.WithNotifier(pub)
		broker = pub
		logger.Info("Publishing change events",
			zap.Strings("brokers", cfg.Events.Brokers),
			zap.String("topic", cfg.Events.Topic),
		)
	}

	healthSvc := healthuc.New(pinger, broker)

	server := chiTransport.NewServer(speechSvc, healthSvc, logger)
	handler := server.Routes(
		chiTransport.JSONRecoverer(logger),
		chiMiddleware.RequestID,
		chiTransport.WideEventMiddleware(logger),
		metrics.Middleware(),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore builds the record store selected by cfg.Driver and prepares its
// schema or index. The returned pinger backs the health check.
func openStore(
	ctx context.Context,
	cfg config.StorageConfig,
	logger *zap.Logger,
) (speechuc.Repository, healthuc.DBPinger, func(), error) {
	readiness := time.Duration(cfg.ReadinessTimeout) * time.Second

	switch cfg.Driver {
	case config.DriverMemory:
		repo := memory.New()
		return repo, repo, func() {}, nil

	case config.DriverSQLite, config.DriverPostgres:
		dialect := sqlstore.SQLite
		if cfg.Driver == config.DriverPostgres {
			dialect = sqlstore.Postgres
		}
		sqlDB, err := sqlstore.Open(dialect, cfg.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		closeDB := func() {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Error closing database", zap.Error(err))
			}
		}
		repo := sqlstore.New(sqlDB, dialect)
		schemaCtx, cancel := context.WithTimeout(ctx, readiness)
		defer cancel()
		if err := repo.EnsureSchema(schemaCtx); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, repo, closeDB, nil

	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		repo := speechrepo.New(store, cfg.KeyPrefix)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("ensure index: %w", err)
		}
		return repo, store, store.Close, nil

	case config.DriverElasticsearch:
		repo, err := elastic.New(cfg.Addrs, cfg.Username, cfg.Password, cfg.Index)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create elasticsearch client: %w", err)
		}
		indexCtx, cancel := context.WithTimeout(ctx, readiness)
		defer cancel()
		if err := repo.EnsureIndex(indexCtx); err != nil {
			return nil, nil, nil, fmt.Errorf("ensure index: %w", err)
		}
		return repo, repo, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

package speeches

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/speeches/internal/db/redis"
	"github.com/kailas-cloud/speeches/internal/domain/search/predicate"
	"github.com/kailas-cloud/speeches/internal/mapper"
	"github.com/kailas-cloud/speeches/internal/repository/elastic"
	"github.com/kailas-cloud/speeches/internal/repository/memory"
	speechrepo "github.com/kailas-cloud/speeches/internal/repository/speech"
	"github.com/kailas-cloud/speeches/internal/repository/sqlstore"
	healthuc "github.com/kailas-cloud/speeches/internal/usecase/health"
	speechuc "github.com/kailas-cloud/speeches/internal/usecase/speech"
)

const defaultReadinessTimeout = 10 * time.Second

const (
	driverMemory        = "memory"
	driverSQLite        = "sqlite"
	driverPostgres      = "postgres"
	driverRedis         = "redis"
	driverElasticsearch = "elasticsearch"
)

// Internal interfaces for substitution in tests.
type speechUseCase interface {
	ListAll(ctx context.Context) ([]mapper.SpeechDTO, error)
	Create(ctx context.Context, dto mapper.SpeechDTO) (mapper.SpeechDTO, error)
	Update(ctx context.Context, id string, dto mapper.SpeechDTO) (mapper.SpeechDTO, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, c predicate.Criteria) ([]mapper.SpeechDTO, error)
}

// Client is the speeches SDK entry point.
type Client struct {
	pinger    healthuc.DBPinger
	closeFn   func()
	speechSvc speechUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and prepares the selected record store.
// The provided context is used for the readiness check and schema setup.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: "speeches:",
		index:     "speeches",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New(
			"speeches: storage required (use WithMemory, WithSQLite, WithPostgres, WithRedis or WithElasticsearch)",
		)
	}

	repo, pinger, closeFn, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		closeFn()
		return nil, err
	}
	return wireClient(repo, pinger, closeFn, obs), nil
}

func openRepository(
	ctx context.Context, cfg *clientConfig,
) (speechuc.Repository, healthuc.DBPinger, func(), error) {
	switch cfg.driver {
	case driverMemory:
		repo := memory.New()
		return repo, repo, func() {}, nil

	case driverSQLite, driverPostgres:
		dialect := sqlstore.SQLite
		if cfg.driver == driverPostgres {
			dialect = sqlstore.Postgres
		}
		sqlDB, err := sqlstore.Open(dialect, cfg.dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("speeches: %w", err)
		}
		closeDB := func() { _ = sqlDB.Close() }
		repo := sqlstore.New(sqlDB, dialect)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("speeches: %w", err)
		}
		return repo, repo, closeDB, nil

	case driverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("speeches: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("speeches: database not ready: %w", err)
		}
		repo := speechrepo.New(store, cfg.keyPrefix)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("speeches: %w", err)
		}
		return repo, store, store.Close, nil

	case driverElasticsearch:
		repo, err := elastic.New(cfg.addrs, cfg.username, cfg.password, cfg.index)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("speeches: %w", err)
		}
		if err := repo.EnsureIndex(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("speeches: %w", err)
		}
		return repo, repo, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("speeches: unknown driver %q", cfg.driver)
	}
}

func wireClient(repo speechuc.Repository, pinger healthuc.DBPinger, closeFn func(), obs *observer) *Client {
	return &Client{
		pinger:    pinger,
		closeFn:   closeFn,
		speechSvc: speechuc.New(repo),
		healthSvc: healthuc.New(pinger, nil),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ping checks record store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Speeches returns the speech record service.
func (c *Client) Speeches() *SpeechService {
	return &SpeechService{svc: c.speechSvc, obs: c.obs}
}

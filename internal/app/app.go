package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/guttosm/contractpulse/config"
	"github.com/guttosm/contractpulse/internal/api"
	"github.com/guttosm/contractpulse/internal/cache"
	"github.com/guttosm/contractpulse/internal/logger"
	"github.com/guttosm/contractpulse/internal/metrics"
	"github.com/guttosm/contractpulse/internal/quality"
	"github.com/guttosm/contractpulse/internal/service"
	"github.com/guttosm/contractpulse/internal/storage"
)

// Components holds the wired service graph shared by the API and report modes.
type Components struct {
	Service service.QualityService
	Source  storage.ContractSource
	Metrics *metrics.Metrics
	Checks  map[string]api.Check

	closers []func()
}

// Close releases every resource opened by Build, in reverse order.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build wires the data source, query cache, metrics and quality service from cfg.
//
// Responsibilities:
//   - Connects to PostgreSQL (DATA_SOURCE=postgres) or builds the REST
//     source (DATA_SOURCE=rest).
//   - Selects the cache store (CACHE_BACKEND=memory|redis).
//   - Registers Prometheus collectors on a dedicated registry.
//   - Collects readiness checks for /readyz.
func Build(ctx context.Context, cfg config.Config) (*Components, error) {
	c := &Components{Checks: make(map[string]api.Check)}

	switch cfg.Source.Kind {
	case config.SourceREST:
		src := storage.NewRestSource(cfg.Source.SupabaseURL, cfg.Source.Table, cfg.Source.SupabaseKey, cfg.Source.Timeout)
		c.Source = src
	default:
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		c.Source = storage.NewContractsRepository(db, cfg.Source.Table)
	}
	c.Checks["source"] = c.Source.Ping

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(reg, reg)

	store, err := newStore(ctx, cfg, c)
	if err != nil {
		c.Close()
		return nil, err
	}
	qc := cache.New(store, cfg.Cache.Stale, cfg.Cache.Retention, cache.WithObserver(c.Metrics))

	c.Service = service.NewQualityService(c.Source,
		service.WithCache(qc),
		service.WithRecorder(c.Metrics),
		service.WithThresholds(Thresholds(cfg.Alerts)),
	)

	logger.L().Info().
		Str("source", sourceKind(cfg)).
		Str("table", cfg.Source.Table).
		Str("cache", cfg.Cache.Backend).
		Dur("cache_stale", cfg.Cache.Stale).
		Dur("cache_retention", cfg.Cache.Retention).
		Msg("components initialized")
	return c, nil
}

func newStore(ctx context.Context, cfg config.Config, c *Components) (cache.Store, error) {
	if cfg.Cache.Backend != config.CacheRedis {
		return cache.NewMemoryStore(nil), nil
	}
	rs, err := cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
	}
	c.closers = append(c.closers, func() { _ = rs.Close() })
	c.Checks["cache"] = rs.Ping
	return rs, nil
}

func sourceKind(cfg config.Config) string {
	if cfg.Source.Kind == "" {
		return config.SourcePostgres
	}
	return cfg.Source.Kind
}

// Thresholds maps the alert configuration onto quality.AlertThresholds.
// An all-zero configuration (config not loaded) yields the defaults.
func Thresholds(a config.AlertsConfig) quality.AlertThresholds {
	if a == (config.AlertsConfig{}) {
		return quality.DefaultAlertThresholds()
	}
	return quality.AlertThresholds{
		Expiring30Days:     a.Expiring30Days,
		AutoRenewed:        a.AutoRenewed,
		HighRiskPercentage: a.HighRiskPercentage,
		CriticalContracts:  a.CriticalContracts,
	}
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	c, err := Build(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(c.Service)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     cfg.Server.RequestTimeout,
		Metrics:            c.Metrics,
	})

	api.NewHealthHandler(c.Checks).Register(router)

	return router, c.Close, nil
}

// OpenAndMigrate connects to Postgres and applies the schema migrations.
func OpenAndMigrate(cfg config.Config) (*sql.DB, error) {
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

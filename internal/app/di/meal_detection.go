// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"meal_backend/internal/feature/mealdetection/adapters/budget"
	"meal_backend/internal/feature/mealdetection/adapters/cache"
	"meal_backend/internal/feature/mealdetection/adapters/gemini"
	"meal_backend/internal/feature/mealdetection/adapters/store"
	"meal_backend/internal/feature/mealdetection/adapters/telemetry"
	"meal_backend/internal/feature/mealdetection/adapters/vision"
	"meal_backend/internal/feature/mealdetection/transport/handler"
	"meal_backend/internal/feature/mealdetection/usecase"
	"meal_backend/internal/platform/config"
	"meal_backend/internal/platform/db"
	healthhandler "meal_backend/internal/platform/http/handler"
	infrahttp "meal_backend/internal/platform/http"
	infraredis "meal_backend/internal/platform/redis"
	"meal_backend/internal/shared/ratelimiter"
)

// MealDetection holds the wired meal detection components and what they own.
type MealDetection struct {
	Usecase handler.MealDetectionUsecase
	Runs    *store.DetectionRunRepository   // nil when the audit log is disabled
	Cache   *cache.CachingSecondaryDetector // nil when Redis is not configured
	Metrics *telemetry.PrometheusRecorder   // nil when reg is nil
	Checks  []healthhandler.Check

	closers []func() error
}

// Close releases every client created by NewMealDetection.
func (m *MealDetection) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	return errors.Join(errs...)
}

// NewMealDetection builds the detectors, decorators and recorders from cfg.
// Redis and the database are optional; when unavailable the service runs without them.
// Metrics are registered on reg when it is non-nil.
func NewMealDetection(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*MealDetection, error) {
	m := &MealDetection{}

	primary, err := vision.NewVisionDetector(ctx, cfg.Vision.MaxResults)
	if err != nil {
		return nil, err
	}
	m.closers = append(m.closers, primary.Close)

	rdb := NewRedis(ctx, cfg.Redis)
	if rdb != nil {
		m.closers = append(m.closers, rdb.Close)
		m.Checks = append(m.Checks, healthhandler.Check{Name: "redis", Fn: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	secondary, cached, err := NewSecondaryDetector(ctx, cfg, rdb)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	m.Cache = cached

	gdb, err := NewDatabase(cfg.Database)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if gdb != nil {
		m.Runs = store.NewDetectionRunRepository(gdb)
		if sqlDB, err := gdb.DB(); err == nil {
			m.closers = append(m.closers, sqlDB.Close)
			m.Checks = append(m.Checks, healthhandler.Check{Name: "database", Fn: sqlDB.PingContext})
		}
	}

	if reg != nil {
		m.Metrics = telemetry.NewPrometheusRecorder(reg)
	}

	m.Usecase = usecase.NewMealDetectionUsecase(primary, secondary, cfg.Detection,
		usecase.WithLogger(logger),
		usecase.WithRecorder(NewRecorder(logger, m.Metrics, m.Runs)),
	)
	return m, nil
}

// NewSecondaryDetector creates the Gemini detector wrapped, from the inside out,
// by the Redis cache and the call budget. Cache hits do not spend budget.
func NewSecondaryDetector(ctx context.Context, cfg *config.Config, rdb *redis.Client) (usecase.SecondaryDetector, *cache.CachingSecondaryDetector, error) {
	g, err := gemini.NewGeminiDetector(ctx, cfg.Gemini.Model, infrahttp.NewHTTPClient(cfg.Gemini.Timeout))
	if err != nil {
		return nil, nil, err
	}

	var detector usecase.SecondaryDetector = g
	if cfg.Budget.Enabled {
		detector = budget.NewBudgetedSecondaryDetector(detector, ratelimiter.NewRateLimiter(cfg.Budget.Limit, cfg.Budget.Interval))
	}

	var cached *cache.CachingSecondaryDetector
	if rdb != nil {
		cached = cache.NewCachingSecondaryDetector(rdb, cfg.Redis.CacheTTL, detector, cfg.Redis.Namespace)
		detector = cached
	}
	return detector, cached, nil
}

// NewRedis connects to Redis. It returns nil when Redis is not configured or unreachable.
func NewRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Options{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB})
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewDatabase opens and migrates the audit-log database. It returns nil when disabled.
func NewDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		gdb, err = db.OpenSQLite(cfg.Path)
	default:
		gdb, err = db.OpenPostgres(cfg.Config, cfg.ConnectTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrateOrClose(gdb, db.Migrate); err != nil {
			return nil, err
		}
	}
	return gdb, nil
}

// migrateOrClose runs migrate and closes the connection pool when it fails.
func migrateOrClose(gdb *gorm.DB, migrate func(*gorm.DB) error) error {
	err := migrate(gdb)
	if err == nil {
		return nil
	}
	if sqlDB, dbErr := gdb.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return err
}

// NewRecorder fans detection results out to the log, metrics and audit log.
func NewRecorder(logger *slog.Logger, metrics *telemetry.PrometheusRecorder, runs *store.DetectionRunRepository) usecase.Recorder {
	recorders := telemetry.MultiRecorder{telemetry.NewSlogRecorder(logger)}
	if metrics != nil {
		recorders = append(recorders, metrics)
	}
	if runs != nil {
		recorders = append(recorders, runs)
	}
	return recorders
}

// RunLister returns the audit-log repository as a handler dependency, or nil when disabled.
func (m *MealDetection) RunLister() handler.DetectionRunLister {
	if m.Runs == nil {
		return nil
	}
	return m.Runs
}

// Package bootstrap builds the process-wide Runtime shared by the server and tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chorus/internal/cache"
	"chorus/internal/config"
	"chorus/internal/database"
	"chorus/internal/observability"
	"chorus/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// AutoMigrate runs gorm AutoMigrate on the primary database after connecting.
	AutoMigrate bool
	// ServiceName names the process in traces.
	ServiceName string
}

// Runtime holds the long-lived collaborators created once at startup.
// It is read-only after InitRuntime returns.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	ReadDB  *gorm.DB // nil when no replica is configured
	Redis   *redis.Client
	Storage storage.ObjectStorage

	shutdownTracing func(context.Context) error
}

// InitRuntime builds the logger, tracing, database, Redis and object storage from cfg.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "chorus-api"
	}
	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, replica, err := database.Connect(cfg, logger, database.ConnectOptions{AutoMigrate: opts.AutoMigrate})
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	objects, err := newObjectStorage(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	return &Runtime{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		ReadDB:          replica,
		Redis:           cache.NewRedis(ctx, cfg.RedisURL, logger),
		Storage:         objects,
		shutdownTracing: shutdownTracing,
	}, nil
}

func newObjectStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ObjectStorage, error) {
	if cfg.MinioEndpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set, avatars are kept in memory")
		return storage.NewMemoryStorage(), nil
	}

	objects, err := storage.NewMinioStorage(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := objects.EnsureBucket(ctx); err != nil {
		// Avatar routes fail until storage is reachable; the rest of the API keeps working.
		logger.Warn("object storage unavailable", slog.String("error", err.Error()))
	}
	return objects, nil
}

// Close releases every connection held by the runtime.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.Redis != nil {
		errs = append(errs, rt.Redis.Close())
	}
	for _, db := range []*gorm.DB{rt.ReadDB, rt.DB} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if rt.shutdownTracing != nil {
		errs = append(errs, rt.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}

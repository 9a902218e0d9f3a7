// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chorus/internal/config"
	"chorus/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM logging through slog and ignores ErrRecordNotFound.
type GormLogger struct {
	logger *slog.Logger
	Config logger.Config
}

// NewGormLogger builds a GORM logger. Every query is logged only at debug level.
func NewGormLogger(l *slog.Logger, debug bool) *GormLogger {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &GormLogger{
		logger: l,
		Config: logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	}
}

// LogMode sets the logging level and returns a new interface instance.
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newlogger := *l
	newlogger.Config.LogLevel = level
	return &newlogger
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL statements with their execution time.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Config.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.Config.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "GORM query error",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
	case elapsed > l.Config.SlowThreshold && l.Config.SlowThreshold != 0 && l.Config.LogLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "GORM slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	case l.Config.LogLevel >= logger.Info:
		l.logger.DebugContext(ctx, "GORM query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

// ConnectOptions control schema handling on connect.
type ConnectOptions struct {
	AutoMigrate bool
}

// Connect opens the primary database and, when DB_READ_HOST is set, a read replica.
// The replica is nil when not configured.
func Connect(cfg *config.Config, log *slog.Logger, opts ConnectOptions) (primary *gorm.DB, replica *gorm.DB, err error) {
	gormLogger := NewGormLogger(log, cfg.LogLevel == "debug")

	primary, err = open(primaryDSN(cfg), gormLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := configurePool(primary, cfg); err != nil {
		return nil, nil, err
	}
	log.Info("Database connected successfully", slog.String("host", cfg.DBHost), slog.String("name", cfg.DBName))

	if opts.AutoMigrate {
		if err := AutoMigrate(primary); err != nil {
			return nil, nil, err
		}
		log.Info("Database automigration completed")
	}

	if cfg.DBReadHost != "" {
		replica, err = open(replicaDSN(cfg), gormLogger)
		if err != nil {
			log.Warn("Read replica unavailable, reads use the primary", slog.String("error", err.Error()))
			return primary, nil, nil
		}
		if err := configurePool(replica, cfg); err != nil {
			return nil, nil, err
		}
		log.Info("Read replica connected", slog.String("host", cfg.DBReadHost))
	}

	return primary, replica, nil
}

func open(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
}

func primaryDSN(cfg *config.Config) string {
	return dsn(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func replicaDSN(cfg *config.Config) string {
	return dsn(cfg.DBReadHost, cfg.DBReadPort, cfg.DBReadUser, cfg.DBReadPassword, cfg.DBName, cfg.DBSSLMode)
}

func dsn(host, port, user, password, name, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode,
	)
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMinutes) * time.Minute)
	return nil
}

// PersistentModels returns the schema-managed GORM models in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
	}
}

// AutoMigrate creates or updates tables for PersistentModels.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks connectivity within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

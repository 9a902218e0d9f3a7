package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MigrationStore tracks applied migrations.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	ApplyMigration(ctx context.Context, m Migration) error
	RevertMigration(ctx context.Context, m Migration) error
}

type migrationStore struct {
	db *gorm.DB
}

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// NewMigrationStore creates a new MigrationStore instance.
func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

func (s *migrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	var versions []int
	if err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return versions, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// ApplyMigration runs the up script and records it in one transaction.
func (s *migrationStore) ApplyMigration(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m, err)
		}
		if err := tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m, err)
		}
		return nil
	})
}

// RevertMigration runs the down script and removes the record in one transaction.
func (s *migrationStore) RevertMigration(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("failed to run rollback SQL for migration %s: %w", m, err)
		}
		if err := tx.Where("version = ?", m.Version).Delete(&MigrationLog{}).Error; err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", m.Version, err)
		}
		return nil
	})
}

// Migrator applies embedded SQL migrations through a MigrationStore.
type Migrator struct {
	db         *gorm.DB
	store      MigrationStore
	migrations []Migration
	logger     *slog.Logger
}

// NewMigrator loads the embedded migrations.
func NewMigrator(db *gorm.DB, logger *slog.Logger) (*Migrator, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	return &Migrator{
		db:         db,
		store:      NewMigrationStore(db),
		migrations: migrations,
		logger:     logger,
	}, nil
}

// Up ensures the migration log table exists and applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}

	applied, err := m.store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, m.migrations); err != nil {
		return err
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	for _, mig := range m.migrations {
		if appliedSet[mig.Version] {
			m.logger.Debug("Migration already applied", slog.String("migration", mig.String()))
			continue
		}
		if err := m.store.ApplyMigration(ctx, mig); err != nil {
			return err
		}
		m.logger.Info("Migration applied", slog.String("migration", mig.String()))
	}

	return nil
}

// Down reverts the most recently applied migration. It is a no-op when none are applied.
func (m *Migrator) Down(ctx context.Context) error {
	applied, err := m.store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		m.logger.Info("No migrations to roll back")
		return nil
	}

	latest := applied[len(applied)-1]
	for _, mig := range m.migrations {
		if mig.Version != latest {
			continue
		}
		if err := m.store.RevertMigration(ctx, mig); err != nil {
			return err
		}
		m.logger.Info("Migration rolled back", slog.String("migration", mig.String()))
		return nil
	}
	return fmt.Errorf("migration version %d not found", latest)
}

// Status returns applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) (applied []int, pending []Migration, err error) {
	applied, err = m.store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, nil, err
	}
	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}
	for _, mig := range m.migrations {
		if !appliedSet[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return applied, pending, nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("migration_logs contains unknown versions not present in code: %s", strings.Join(parts, ", "))
}

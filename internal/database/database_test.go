package database

import (
	"context"
	"strings"
	"testing"

	"chorus/internal/config"
	"chorus/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: NewGormLogger(observability.NopLogger(), false),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestAutoMigrate_CreatesTables(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "posts", "comments", "likes", "followers"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("likes", "idx_likes_user_post"))
	assert.True(t, db.Migrator().HasIndex("followers", "idx_followers_pair"))
}

func TestDSN(t *testing.T) {
	got := dsn("db", "5432", "u", "p", "chorus", "")
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=chorus sslmode=disable", got)
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, "000001_init", migrations[0].String())
	assert.True(t, strings.Contains(migrations[0].UpScript, "CREATE TABLE IF NOT EXISTS followers"))
	assert.True(t, strings.Contains(migrations[0].DownScript, "DROP TABLE IF EXISTS followers"))
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 9, 3}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000003, 000009")
}

func TestMigrator_UpStatusDown(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	m := &Migrator{
		db:    db,
		store: NewMigrationStore(db),
		migrations: []Migration{
			{Version: 1, Name: "widgets", UpScript: "CREATE TABLE widgets (id INTEGER PRIMARY KEY)", DownScript: "DROP TABLE widgets"},
			{Version: 2, Name: "gadgets", UpScript: "CREATE TABLE gadgets (id INTEGER PRIMARY KEY)", DownScript: "DROP TABLE gadgets"},
		},
		logger: observability.NopLogger(),
	}

	require.NoError(t, m.Up(ctx))
	assert.True(t, db.Migrator().HasTable("widgets"))
	assert.True(t, db.Migrator().HasTable("gadgets"))

	// Re-running is a no-op.
	require.NoError(t, m.Up(ctx))

	applied, pending, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
	assert.Empty(t, pending)

	require.NoError(t, m.Down(ctx))
	assert.False(t, db.Migrator().HasTable("gadgets"))
	assert.True(t, db.Migrator().HasTable("widgets"))

	applied, pending, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)
}

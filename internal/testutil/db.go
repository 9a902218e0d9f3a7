// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"chorus/internal/database"
	"chorus/internal/models"
	"chorus/internal/observability"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a migrated in-memory SQLite database that lives for the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         database.NewGormLogger(observability.NopLogger(), false),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection would otherwise get its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// QueryCounter counts SELECT statements issued through a gorm.DB.
type QueryCounter struct {
	n atomic.Int64
}

// CountQueries installs a counter on db's query and row callbacks.
func CountQueries(t testing.TB, db *gorm.DB) *QueryCounter {
	t.Helper()
	c := &QueryCounter{}
	inc := func(*gorm.DB) { c.n.Add(1) }
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("testutil:count_query", inc))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("testutil:count_row", inc))
	return c
}

// Count returns the number of statements seen so far.
func (c *QueryCounter) Count() int64 {
	return c.n.Load()
}

// Reset zeroes the counter.
func (c *QueryCounter) Reset() {
	c.n.Store(0)
}

// Fixtures inserts rows with explicit timestamps so ordering is deterministic.
type Fixtures struct {
	t    testing.TB
	db   *gorm.DB
	base time.Time
	tick int
}

// NewFixtures returns a fixture builder whose timestamps increase by one second per row.
func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db, base: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *Fixtures) next() time.Time {
	f.tick++
	return f.base.Add(time.Duration(f.tick) * time.Second)
}

// User creates a user named name.
func (f *Fixtures) User(name string) models.User {
	f.t.Helper()
	u := models.User{
		Username:  name,
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  "hash",
		CreatedAt: f.next(),
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

// Post creates a post by author.
func (f *Fixtures) Post(author models.User, text string) models.Post {
	f.t.Helper()
	p := models.Post{AuthorID: author.ID, Text: text, CreatedAt: f.next()}
	require.NoError(f.t, f.db.Omit("Author").Create(&p).Error)
	return p
}

// Comment creates a comment by author on post.
func (f *Fixtures) Comment(post models.Post, author models.User, text string) models.Comment {
	f.t.Helper()
	c := models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text, CreatedAt: f.next()}
	require.NoError(f.t, f.db.Omit("Author", "Post").Create(&c).Error)
	return c
}

// Like records that user liked post.
func (f *Fixtures) Like(user models.User, post models.Post) models.Like {
	f.t.Helper()
	l := models.Like{UserID: user.ID, PostID: post.ID, CreatedAt: f.next()}
	require.NoError(f.t, f.db.Create(&l).Error)
	return l
}

// Follow creates the edge follower -> following.
func (f *Fixtures) Follow(follower, following models.User) models.Follow {
	f.t.Helper()
	e := models.Follow{FollowerID: follower.ID, FollowingID: following.ID, CreatedAt: f.next()}
	require.NoError(f.t, f.db.Create(&e).Error)
	return e
}

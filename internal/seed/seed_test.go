package seed

import (
	"context"
	"testing"
	"unicode/utf8"

	"chorus/internal/models"
	"chorus/internal/observability"
	"chorus/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "héll", truncate("héllo", 4))
}

func TestRun_SeedsOnceAndRespectsConstraints(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	opts := DefaultOptions()
	opts.RandSeed = 42

	res, err := NewSeeder(db, opts, observability.NopLogger()).Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 10, res.Users)
	assert.GreaterOrEqual(t, res.Posts, 10)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 10)
	for _, u := range users {
		assert.Regexp(t, `^[a-z0-9_-]{2,30}$`, u.Username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DemoPassword)))
	}

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	assert.Len(t, posts, res.Posts)
	for _, p := range posts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p.Text), maxPostText)
		assert.NotEmpty(t, p.Text)
	}

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = following_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	assert.EqualValues(t, res.Likes, likes)

	again, err := NewSeeder(db, opts, observability.NopLogger()).Run(ctx)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 10, userCount)
}

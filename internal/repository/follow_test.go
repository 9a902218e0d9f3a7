package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"chorus/internal/models"
	"chorus/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Delete_ReportsRowsAffected(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db, nil, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "followers" WHERE follower_id = $1 AND following_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	rows, err := repo.Delete(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Lifecycle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewFollowRepository(db, nil, nil)
	ctx := context.Background()

	alice := fx.User("alice")
	bob := fx.User("bob")
	carol := fx.User("carol")

	require.NoError(t, repo.Insert(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	exists, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, exists, "edges are directed")

	err = repo.Insert(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	assert.True(t, errors.Is(err, ErrDuplicate))

	followed, err := repo.FollowedAmong(ctx, alice.ID, []uint{bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, followed)

	followers, err := repo.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	following, err := repo.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	rows, err := repo.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

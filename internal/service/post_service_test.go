package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chorus/internal/models"
	"chorus/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(posts *postRepoStub, likes *likeRepoStub, users *userRepoStub) *PostService {
	return NewPostService(posts, likes, users, NewEnricher(likes, noopCommentRepo()), nil)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := newPostService(noopPostRepo(), noopLikeRepo(), noopUserRepo())
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: "   "})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("text too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: strings.Repeat("x", 101)})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("missing author", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.findByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		_, err := newPostService(noopPostRepo(), noopLikeRepo(), users).CreatePost(ctx, CreatePostInput{AuthorID: 3, Text: "hi"})
		assertCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_CreatePost_AttachesAuthor(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.insertFn = func(_ context.Context, p *models.Post) error {
		p.ID = 10
		return nil
	}
	post, err := newPostService(posts, noopLikeRepo(), noopUserRepo()).
		CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: " hello "})
	require.NoError(t, err)
	assert.Equal(t, uint(10), post.ID)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, uint(1), post.Author.ID)
}

func TestPostService_ToggleLike(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing post writes nothing", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.existsFn = func(context.Context, uint) (bool, error) { return false, nil }
		likes := noopLikeRepo()
		likes.insertFn = func(context.Context, *models.Like) error {
			t.Error("insert must not be called")
			return nil
		}
		_, err := newPostService(posts, likes, noopUserRepo()).ToggleLike(ctx, 99, 1)
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("existing like is removed", func(t *testing.T) {
		t.Parallel()
		likes := noopLikeRepo()
		likes.findFn = func(context.Context, uint, uint) (*models.Like, error) { return &models.Like{ID: 8}, nil }
		var deleted uint
		likes.deleteFn = func(_ context.Context, id uint) error { deleted = id; return nil }
		liked, err := newPostService(noopPostRepo(), likes, noopUserRepo()).ToggleLike(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, uint(8), deleted)
	})

	t.Run("losing an insert race still reports liked", func(t *testing.T) {
		t.Parallel()
		likes := noopLikeRepo()
		likes.insertFn = func(context.Context, *models.Like) error {
			return errors.Join(repository.ErrDuplicate, errors.New("UNIQUE constraint failed"))
		}
		liked, err := newPostService(noopPostRepo(), likes, noopUserRepo()).ToggleLike(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("other insert errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		likes := noopLikeRepo()
		likes.insertFn = func(context.Context, *models.Like) error { return boom }
		_, err := newPostService(noopPostRepo(), likes, noopUserRepo()).ToggleLike(ctx, 1, 2)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.findByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1}, nil
	}
	posts.deleteFn = func(context.Context, uint) error {
		t.Error("delete must not be called for a non-owner")
		return nil
	}

	err := newPostService(posts, noopLikeRepo(), noopUserRepo()).
		DeletePost(context.Background(), DeletePostInput{UserID: 2, PostID: 10})
	assertCode(t, err, models.CodeForbidden)
}

func TestPostService_ListUserPosts_UnknownUser(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.existsFn = func(context.Context, uint) (bool, error) { return false, nil }
	_, err := newPostService(noopPostRepo(), noopLikeRepo(), users).
		ListUserPosts(context.Background(), ListUserPostsInput{AuthorID: 4, ViewerID: 1, Limit: 20})
	assertCode(t, err, models.CodeNotFound)
}

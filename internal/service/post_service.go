package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chorus/internal/models"
	"chorus/internal/observability"
	"chorus/internal/repository"
)

const (
	maxPostTextLen    = 100
	maxCommentTextLen = 1000
)

type PostService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
	enricher *Enricher
	logger   *slog.Logger
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// ListUserPostsInput selects one author's posts as seen by ViewerID.
type ListUserPostsInput struct {
	AuthorID uint
	ViewerID uint
	Limit    int
	Offset   int
}

func NewPostService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	enricher *Enricher,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		userRepo: userRepo,
		enricher: enricher,
		logger:   loggerOrNop(logger),
	}
}

func validateText(field, text string, maxLen int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError(field + " is required")
	}
	if utf8.RuneCountInString(text) > maxLen {
		return "", models.NewValidationError(field + " is too long")
	}
	return text, nil
}

// CreatePost stores a post and returns it with the author attached.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := validateText("Text", in.Text, maxPostTextLen)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.FindByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: author.ID, Text: text}
	if err := s.postRepo.Insert(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *author

	s.logger.InfoContext(ctx, "post created", slog.Uint64("post_id", uint64(post.ID)))
	return post, nil
}

// GetPost returns one enriched post.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.EnrichedPost, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enricher.Enrich(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// ListUserPosts returns an author's posts, newest first. An unknown author is NOT_FOUND.
func (s *PostService) ListUserPosts(ctx context.Context, in ListUserPostsInput) ([]models.EnrichedPost, error) {
	exists, err := s.userRepo.Exists(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", in.AuthorID)
	}
	return s.listByAuthor(ctx, in)
}

// ListMyPosts returns the viewer's own posts without re-checking the account.
func (s *PostService) ListMyPosts(ctx context.Context, viewerID uint, limit, offset int) ([]models.EnrichedPost, error) {
	return s.listByAuthor(ctx, ListUserPostsInput{
		AuthorID: viewerID,
		ViewerID: viewerID,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *PostService) listByAuthor(ctx context.Context, in ListUserPostsInput) ([]models.EnrichedPost, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, in.AuthorID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return s.enricher.Enrich(ctx, posts, in.ViewerID)
}

// ToggleLike flips the user's like on a post and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, models.NewNotFoundError("Post", postID)
	}

	existing, err := s.likeRepo.Find(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.likeRepo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		s.logger.InfoContext(ctx, "post unliked", slog.Uint64("post_id", uint64(postID)))
		return false, nil
	}

	err = s.likeRepo.Insert(ctx, &models.Like{UserID: userID, PostID: postID})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return false, err
	}
	// A concurrent toggle may have inserted the row first; either way it exists now.
	s.logger.InfoContext(ctx, "post liked", slog.Uint64("post_id", uint64(postID)))
	return true, nil
}

// DeletePost removes a post owned by the requester along with its likes and comments.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.FindByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "post deleted", slog.Uint64("post_id", uint64(in.PostID)))
	return nil
}

func loggerOrNop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return observability.NopLogger()
	}
	return logger
}

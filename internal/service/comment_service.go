package service

import (
	"context"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	logger      *slog.Logger
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID uint
	Text     string
}

type ListCommentsInput struct {
	PostID uint
	Limit  int
	Offset int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		logger:      loggerOrNop(logger),
	}
}

// CreateComment adds a comment to an existing post and returns it with its author.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	text, err := validateText("Text", in.Text, maxCommentTextLen)
	if err != nil {
		return nil, err
	}

	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}
	author, err := s.userRepo.FindByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: in.PostID, AuthorID: author.ID, Text: text}
	if err := s.commentRepo.Insert(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author

	s.logger.InfoContext(ctx, "comment created",
		slog.Uint64("comment_id", uint64(comment.ID)),
		slog.Uint64("post_id", uint64(in.PostID)),
	)
	return comment, nil
}

// ListComments pages through a post's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]models.Comment, error) {
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, in.PostID, in.Limit, in.Offset)
}

func (s *CommentService) requirePost(ctx context.Context, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository is the comment half of the Content Store.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error)
	// ListByPostIDs fetches every comment of the given posts with authors, newest first.
	ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error)
	// CountGroupedByPost returns comment counts keyed by post id. Posts without comments are absent.
	CountGroupedByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

type commentRepository struct {
	db     *gorm.DB
	read   *gorm.DB
	logger *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository. replica may be nil.
func NewCommentRepository(db, replica *gorm.DB, logger *slog.Logger) CommentRepository {
	return &commentRepository{
		db:     db,
		read:   readDB(db, replica),
		logger: observability.NewRepoLogger(logger, "comments"),
	}
}

func newestComments(db *gorm.DB) *gorm.DB {
	return db.Joins("Author").Order("comments.created_at DESC").Order("comments.id DESC")
}

func (r *commentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return wrapWrite(err)
	}
	r.logger.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Joins("Author").First(&comment, "comments.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := newestComments(r.read.WithContext(ctx)).
		Where("comments.post_id = ?", postID).
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if len(postIDs) == 0 {
		return comments, nil
	}
	done := observability.TrackQuery("list_by_posts", "comments")
	defer done()

	err := newestComments(r.read.WithContext(ctx)).
		Where("comments.post_id IN ?", postIDs).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) CountGroupedByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	if len(postIDs) == 0 {
		return map[uint]int64{}, nil
	}
	done := observability.TrackQuery("count_grouped", "comments")
	defer done()

	var rows []idCount
	err := r.read.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return countsToMap(rows), nil
}

package repository

import (
	"context"
	"errors"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository is the like half of the Content Store.
type LikeRepository interface {
	// Find returns the like for (userID, postID) or nil when there is none.
	Find(ctx context.Context, userID, postID uint) (*models.Like, error)
	Insert(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id uint) error
	// LikedPostIDs returns the subset of postIDs liked by userID.
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	// CountGroupedByPost returns like counts keyed by post id. Posts without likes are absent.
	CountGroupedByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

type likeRepository struct {
	db     *gorm.DB
	read   *gorm.DB
	logger *observability.RepoLogger
}

// NewLikeRepository creates a new like repository. replica may be nil.
func NewLikeRepository(db, replica *gorm.DB, logger *slog.Logger) LikeRepository {
	return &likeRepository{
		db:     db,
		read:   readDB(db, replica),
		logger: observability.NewRepoLogger(logger, "likes"),
	}
}

func (r *likeRepository) Find(ctx context.Context, userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *likeRepository) Insert(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if !isUniqueViolation(err) {
			r.logger.LogError(ctx, err, "create")
		}
		return wrapWrite(err)
	}
	r.logger.LogCreate(ctx, map[string]any{"user_id": like.UserID, "post_id": like.PostID})
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Like{}, id).Error; err != nil {
		r.logger.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.logger.LogDelete(ctx, map[string]any{"like_id": id})
	return nil
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(postIDs) == 0 {
		return ids, nil
	}
	done := observability.TrackQuery("liked_ids", "likes")
	defer done()

	err := r.read.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *likeRepository) CountGroupedByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	if len(postIDs) == 0 {
		return map[uint]int64{}, nil
	}
	done := observability.TrackQuery("count_grouped", "likes")
	defer done()

	var rows []idCount
	err := r.read.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return countsToMap(rows), nil
}

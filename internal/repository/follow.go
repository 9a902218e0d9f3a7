package repository

import (
	"context"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository is the Social Graph Store.
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	Insert(ctx context.Context, follow *models.Follow) error
	// Delete removes the edge and reports how many rows were removed.
	Delete(ctx context.Context, followerID, followingID uint) (int64, error)
	// FollowedAmong returns the subset of candidateIDs that followerID follows.
	FollowedAmong(ctx context.Context, followerID uint, candidateIDs []uint) ([]uint, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db     *gorm.DB
	read   *gorm.DB
	logger *observability.RepoLogger
}

// NewFollowRepository creates a new follow repository. replica may be nil.
func NewFollowRepository(db, replica *gorm.DB, logger *slog.Logger) FollowRepository {
	return &followRepository{
		db:     db,
		read:   readDB(db, replica),
		logger: observability.NewRepoLogger(logger, "followers"),
	}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Insert(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return wrapWrite(err)
	}
	r.logger.LogCreate(ctx, map[string]any{
		"follower_id":  follow.FollowerID,
		"following_id": follow.FollowingID,
	})
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		r.logger.LogError(ctx, res.Error, "delete")
		return 0, models.NewInternalError(res.Error)
	}
	r.logger.LogDelete(ctx, map[string]any{
		"follower_id":  followerID,
		"following_id": followingID,
		"rows":         res.RowsAffected,
	})
	return res.RowsAffected, nil
}

func (r *followRepository) FollowedAmong(ctx context.Context, followerID uint, candidateIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(candidateIDs) == 0 {
		return ids, nil
	}
	err := r.read.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidateIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "following_id = ?", userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *followRepository) count(ctx context.Context, query string, userID uint) (int64, error) {
	var count int64
	if err := r.read.WithContext(ctx).Model(&models.Follow{}).Where(query, userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, logger *slog.Logger) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		logger:     loggerOrNop(logger),
	}
}

func alreadyFollowing(cause error) error {
	if cause == nil {
		cause = models.ErrAlreadyFollowing
	} else {
		cause = errors.Join(models.ErrAlreadyFollowing, cause)
	}
	return models.NewConflictError("Already following this user", cause)
}

// Follow creates the edge followerID -> followingID and returns it.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	if followerID == followingID {
		return nil, models.NewConflictError("You cannot follow yourself", models.ErrSelfFollow)
	}

	exists, err := s.userRepo.Exists(ctx, followingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", followingID)
	}

	following, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, alreadyFollowing(nil)
	}

	edge := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.followRepo.Insert(ctx, edge); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadyFollowing(err)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "user followed", slog.Uint64("following_id", uint64(followingID)))
	return edge, nil
}

// Unfollow removes the edge followerID -> followingID. A missing edge is NOT_FOUND.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	rows, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("Follow", followingID)
	}
	s.logger.InfoContext(ctx, "user unfollowed", slog.Uint64("following_id", uint64(followingID)))
	return nil
}

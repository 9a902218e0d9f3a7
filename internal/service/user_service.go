package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chorus/internal/models"
	"chorus/internal/repository"
	"chorus/internal/storage"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// avatarExtensions lists the accepted avatar content types.
var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type UserService struct {
	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	postRepo       repository.PostRepository
	objects        storage.ObjectStorage
	maxAvatarBytes int64
	logger         *slog.Logger
}

type UpdateProfileInput struct {
	UserID uint
	Email  *string
	Bio    *string
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

type UploadAvatarInput struct {
	UserID      uint
	ContentType string
	Size        int64
	Body        io.Reader
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	objects storage.ObjectStorage,
	maxAvatarBytes int64,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		followRepo:     followRepo,
		postRepo:       postRepo,
		objects:        objects,
		maxAvatarBytes: maxAvatarBytes,
		logger:         loggerOrNop(logger),
	}
}

// Search finds up to 50 other users whose username contains query.
func (s *UserService) Search(ctx context.Context, query string, viewerID uint) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > maxSearchLen {
		return nil, models.NewValidationError("Search query is too long")
	}

	users, err := s.userRepo.Search(ctx, query, viewerID, searchLimit)
	if err != nil {
		return nil, err
	}
	followed, err := s.followRepo.FollowedAmong(ctx, viewerID, lo.Map(users, func(u models.User, _ int) uint { return u.ID }))
	if err != nil {
		return nil, err
	}

	results := make([]models.UserSearchResult, len(users))
	for i, u := range users {
		results[i] = models.UserSearchResult{User: u, IsFollowing: lo.Contains(followed, u.ID)}
	}
	return results, nil
}

// GetProfile returns a user with relationship counters as seen by viewerID.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{User: *user, IsOwnProfile: userID == viewerID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile.PostsCount, err = s.postRepo.CountByAuthor(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile.FollowersCount, err = s.followRepo.CountFollowers(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile.FollowingCount, err = s.followRepo.CountFollowing(gctx, userID)
		return err
	})
	if !profile.IsOwnProfile {
		g.Go(func() error {
			var err error
			profile.IsFollowing, err = s.followRepo.Exists(gctx, viewerID, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile changes the email and/or bio. Nil fields are left alone.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email, err := validateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			other, err := s.userRepo.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, models.NewConflictError("Email already registered", nil)
			case err != nil && !models.IsCode(err, models.CodeNotFound):
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio must be at most 500 characters")
		}
		bio := *in.Bio
		user.Bio = &bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("Email already registered", err)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "profile updated", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
// A wrong current password is reported as a conflict.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := validatePassword(in.NewPassword); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return models.NewConflictError("Current password is incorrect", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "password changed", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}

// UploadAvatar stores a new avatar image and returns its key. The previous
// object is removed on a best-effort basis.
func (s *UserService) UploadAvatar(ctx context.Context, in UploadAvatarInput) (string, error) {
	ext, ok := avatarExtensions[strings.ToLower(in.ContentType)]
	if !ok {
		return "", models.NewValidationError("Avatar must be a JPEG, PNG or WebP image")
	}
	if in.Size <= 0 || in.Size > s.maxAvatarBytes {
		return "", models.NewValidationError("Avatar file is too large")
	}

	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	key := uuid.NewString() + "." + ext
	if err := s.objects.Put(ctx, key, in.ContentType, in.Body, in.Size); err != nil {
		return "", models.NewInternalError(err)
	}

	previous := user.Avatar
	user.Avatar = &key
	if err := s.userRepo.Update(ctx, user); err != nil {
		_ = s.objects.Delete(ctx, key)
		return "", err
	}
	if previous != nil {
		s.removeObject(ctx, *previous)
	}

	s.logger.InfoContext(ctx, "avatar replaced", slog.Uint64("user_id", uint64(user.ID)), slog.String("key", key))
	return key, nil
}

// DeleteAvatar clears the user's avatar. It is a no-op when none is set.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == nil {
		return nil
	}

	key := *user.Avatar
	user.Avatar = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.removeObject(ctx, key)
	s.logger.InfoContext(ctx, "avatar deleted", slog.Uint64("user_id", uint64(userID)))
	return nil
}

// OpenAvatar opens a stored avatar for streaming. The caller closes the body.
func (s *UserService) OpenAvatar(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.objects.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, models.NewNotFoundError("Avatar", key)
		}
		return nil, models.NewInternalError(err)
	}
	return obj, nil
}

func (s *UserService) removeObject(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete avatar object", slog.String("key", key), slog.String("error", err.Error()))
	}
}

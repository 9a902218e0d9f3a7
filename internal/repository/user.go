package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"chorus/internal/models"
	"chorus/internal/observability"

	"gorm.io/gorm"
)

// UserRepository is the Identity Store.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error)
}

type userRepository struct {
	db     *gorm.DB
	read   *gorm.DB
	logger *observability.RepoLogger
}

// NewUserRepository creates a new user repository. replica may be nil.
func NewUserRepository(db, replica *gorm.DB, logger *slog.Logger) UserRepository {
	return &userRepository{
		db:     db,
		read:   readDB(db, replica),
		logger: observability.NewRepoLogger(logger, "users"),
	}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.read.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.read.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.read.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email = ?", strings.ToLower(email), email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "username = ?", username, username)
}

func (r *userRepository) findBy(ctx context.Context, query string, arg any, label string) (*models.User, error) {
	var user models.User
	if err := r.read.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", label)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Insert(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return wrapWrite(err)
	}
	r.logger.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		r.logger.LogError(ctx, err, "update")
		return wrapWrite(err)
	}
	return nil
}

// Search matches usernames case-insensitively, excluding one user (the viewer).
func (r *userRepository) Search(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error) {
	q := r.read.WithContext(ctx).Where("id <> ?", excludeID)
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where(`LOWER(username) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(query))+"%")
	}

	var users []models.User
	if err := q.Order("username ASC").Limit(limit).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

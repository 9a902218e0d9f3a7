package repository

import (
	"context"
	"errors"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/observability"

	"gorm.io/gorm"
)

// PostRepository is the post half of the Content Store, including feed selection.
type PostRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Insert(ctx context.Context, post *models.Post) error
	// Delete removes the post together with its likes and comments.
	Delete(ctx context.Context, id uint) error
	ListGlobal(ctx context.Context, limit, offset int) ([]models.Post, error)
	// ListFollowing returns posts whose author the viewer currently follows.
	ListFollowing(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type postRepository struct {
	db     *gorm.DB
	read   *gorm.DB
	logger *observability.RepoLogger
}

// NewPostRepository creates a new post repository. replica may be nil.
func NewPostRepository(db, replica *gorm.DB, logger *slog.Logger) PostRepository {
	return &postRepository{
		db:     db,
		read:   readDB(db, replica),
		logger: observability.NewRepoLogger(logger, "posts"),
	}
}

// timeline is the shared base for every post listing: author joined in the
// same statement, newest first, id as tiebreaker for stable pages.
func timeline(db *gorm.DB) *gorm.DB {
	return db.Joins("Author").Order("posts.created_at DESC").Order("posts.id DESC")
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Joins("Author").First(&post, "posts.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Insert(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return wrapWrite(err)
	}
	r.logger.LogCreate(ctx, map[string]any{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	done := observability.TrackQuery("delete", "posts")
	defer done()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		r.logger.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.logger.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

func (r *postRepository) ListGlobal(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return r.list(ctx, "global", timeline(r.read.WithContext(ctx)), limit, offset)
}

func (r *postRepository) ListFollowing(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	q := timeline(r.read.WithContext(ctx)).
		Joins("JOIN followers ON followers.following_id = posts.author_id AND followers.follower_id = ?", viewerID)
	return r.list(ctx, "following", q, limit, offset)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error) {
	q := timeline(r.read.WithContext(ctx)).Where("posts.author_id = ?", authorID)
	return r.list(ctx, "author", q, limit, offset)
}

func (r *postRepository) list(ctx context.Context, kind string, q *gorm.DB, limit, offset int) ([]models.Post, error) {
	done := observability.TrackQuery("list_"+kind, "posts")
	defer done()

	posts := []models.Post{}
	if err := q.Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		r.logger.LogError(ctx, err, "list_"+kind)
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.read.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

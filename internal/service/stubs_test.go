package service

import (
	"context"
	"testing"

	"chorus/internal/models"

	"github.com/stretchr/testify/assert"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	findByIDFn       func(context.Context, uint) (*models.User, error)
	findByIDsFn      func(context.Context, []uint) ([]models.User, error)
	existsFn         func(context.Context, uint) (bool, error)
	findByEmailFn    func(context.Context, string) (*models.User, error)
	findByUsernameFn func(context.Context, string) (*models.User, error)
	insertFn         func(context.Context, *models.User) error
	updateFn         func(context.Context, *models.User) error
	searchFn         func(context.Context, string, uint, int) ([]models.User, error)
}

func (s *userRepoStub) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findByIDFn(ctx, id)
}
func (s *userRepoStub) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	return s.findByIDsFn(ctx, ids)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findByEmailFn(ctx, email)
}
func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findByUsernameFn(ctx, username)
}
func (s *userRepoStub) Insert(ctx context.Context, user *models.User) error {
	return s.insertFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, excludeID, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		findByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user", Email: "user@example.com"}, nil
		},
		findByIDsFn: func(_ context.Context, _ []uint) ([]models.User, error) { return nil, nil },
		existsFn:    func(_ context.Context, _ uint) (bool, error) { return true, nil },
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", email)
		},
		findByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", name)
		},
		insertFn: func(_ context.Context, _ *models.User) error { return nil },
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		searchFn: func(_ context.Context, _ string, _ uint, _ int) ([]models.User, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	findByIDFn      func(context.Context, uint) (*models.Post, error)
	existsFn        func(context.Context, uint) (bool, error)
	insertFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
	listGlobalFn    func(context.Context, int, int) ([]models.Post, error)
	listFollowingFn func(context.Context, uint, int, int) ([]models.Post, error)
	listByAuthorFn  func(context.Context, uint, int, int) ([]models.Post, error)
	countByAuthorFn func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.findByIDFn(ctx, id)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) Insert(ctx context.Context, post *models.Post) error {
	return s.insertFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ListGlobal(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.listGlobalFn(ctx, limit, offset)
}
func (s *postRepoStub) ListFollowing(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.listFollowingFn(ctx, viewerID, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		findByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		},
		existsFn:        func(_ context.Context, _ uint) (bool, error) { return true, nil },
		insertFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listGlobalFn:    func(_ context.Context, _, _ int) ([]models.Post, error) { return nil, nil },
		listFollowingFn: func(_ context.Context, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		listByAuthorFn:  func(_ context.Context, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	findFn         func(context.Context, uint, uint) (*models.Like, error)
	insertFn       func(context.Context, *models.Like) error
	deleteFn       func(context.Context, uint) error
	likedPostIDsFn func(context.Context, uint, []uint) ([]uint, error)
	countFn        func(context.Context, []uint) (map[uint]int64, error)
}

func (s *likeRepoStub) Find(ctx context.Context, userID, postID uint) (*models.Like, error) {
	return s.findFn(ctx, userID, postID)
}
func (s *likeRepoStub) Insert(ctx context.Context, like *models.Like) error {
	return s.insertFn(ctx, like)
}
func (s *likeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *likeRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *likeRepoStub) CountGroupedByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return s.countFn(ctx, postIDs)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		findFn:         func(_ context.Context, _, _ uint) (*models.Like, error) { return nil, nil },
		insertFn:       func(_ context.Context, _ *models.Like) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		likedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		countFn:        func(_ context.Context, _ []uint) (map[uint]int64, error) { return map[uint]int64{}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	insertFn        func(context.Context, *models.Comment) error
	findByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByPostFn    func(context.Context, uint, int, int) ([]models.Comment, error)
	listByPostIDsFn func(context.Context, []uint) ([]models.Comment, error)
	countFn         func(context.Context, []uint) (map[uint]int64, error)
}

func (s *commentRepoStub) Insert(ctx context.Context, comment *models.Comment) error {
	return s.insertFn(ctx, comment)
}
func (s *commentRepoStub) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.findByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) ListByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error) {
	return s.listByPostIDsFn(ctx, postIDs)
}
func (s *commentRepoStub) CountGroupedByPost(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return s.countFn(ctx, postIDs)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		insertFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		findByIDFn:      func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:    func(_ context.Context, _ uint, _, _ int) ([]models.Comment, error) { return nil, nil },
		listByPostIDsFn: func(_ context.Context, _ []uint) ([]models.Comment, error) { return nil, nil },
		countFn:         func(_ context.Context, _ []uint) (map[uint]int64, error) { return map[uint]int64{}, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	existsFn         func(context.Context, uint, uint) (bool, error)
	insertFn         func(context.Context, *models.Follow) error
	deleteFn         func(context.Context, uint, uint) (int64, error)
	followedAmongFn  func(context.Context, uint, []uint) ([]uint, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Insert(ctx context.Context, follow *models.Follow) error {
	return s.insertFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) (int64, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) FollowedAmong(ctx context.Context, followerID uint, candidateIDs []uint) ([]uint, error) {
	return s.followedAmongFn(ctx, followerID, candidateIDs)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		insertFn:         func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) (int64, error) { return 1, nil },
		followedAmongFn:  func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func assertCode(t testing.TB, err error, code string) {
	t.Helper()
	assert.Truef(t, models.IsCode(err, code), "expected %s error, got %v", code, err)
}

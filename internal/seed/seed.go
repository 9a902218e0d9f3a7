// Package seed fills a development database with demo users, follows, posts,
// likes and comments. It is intended for local development only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"chorus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

const maxPostText = 100

// Options sizes the generated data set.
type Options struct {
	NumUsers        int
	MaxPostsPerUser int
	MaxFollows      int
	// RandSeed makes runs reproducible. Zero picks a time-based seed.
	RandSeed int64
}

// DefaultOptions matches the demo data set used in development.
func DefaultOptions() Options {
	return Options{NumUsers: 10, MaxPostsPerUser: 5, MaxFollows: 4}
}

// Result summarizes what a run created.
type Result struct {
	Skipped  bool
	Users    int
	Follows  int
	Posts    int
	Likes    int
	Comments int
}

// Seeder writes demo data through a gorm handle.
type Seeder struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	opts   Options
	logger *slog.Logger
}

func NewSeeder(db *gorm.DB, opts Options, logger *slog.Logger) *Seeder {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, faker: gofakeit.New(seed), opts: opts, logger: logger}
}

// Run seeds an empty database. It does nothing when any user already exists.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return Result{}, fmt.Errorf("count users: %w", err)
	}
	if existing > 0 {
		s.logger.Info("database already seeded", slog.Int64("users", existing))
		return Result{Skipped: true}, nil
	}

	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.createUsers(tx)
		if err != nil {
			return err
		}
		res.Users = len(users)

		if res.Follows, err = s.createFollows(tx, users); err != nil {
			return err
		}

		posts, err := s.createPosts(tx, users)
		if err != nil {
			return err
		}
		res.Posts = len(posts)

		if res.Likes, err = s.createLikes(tx, users, posts); err != nil {
			return err
		}
		res.Comments, err = s.createComments(tx, users, posts)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("seed complete",
		slog.Int("users", res.Users),
		slog.Int("follows", res.Follows),
		slog.Int("posts", res.Posts),
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

func (s *Seeder) createUsers(tx *gorm.DB) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		username := s.username(i)
		bio := s.faker.Sentence(8)
		users = append(users, models.User{
			Username: username,
			Email:    strings.ToLower(username) + "@example.com",
			Password: string(hash),
			Bio:      &bio,
		})
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := tx.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// username keeps only characters accepted at registration and appends i to stay unique.
func (s *Seeder) username(i int) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return -1
	}, s.faker.FirstName())
	if len(base) > 20 {
		base = base[:20]
	}
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s_%d", strings.ToLower(base), i+1)
}

func (s *Seeder) createFollows(tx *gorm.DB, users []models.User) (int, error) {
	var follows []models.Follow
	for i, follower := range users {
		n := s.faker.Number(0, s.opts.MaxFollows)
		for _, j := range s.faker.Rand.Perm(len(users)) {
			if n == 0 {
				break
			}
			if j == i {
				continue
			}
			follows = append(follows, models.Follow{FollowerID: follower.ID, FollowingID: users[j].ID})
			n--
		}
	}
	if len(follows) == 0 {
		return 0, nil
	}
	if err := tx.Create(&follows).Error; err != nil {
		return 0, fmt.Errorf("create follows: %w", err)
	}
	return len(follows), nil
}

func (s *Seeder) createPosts(tx *gorm.DB, users []models.User) ([]models.Post, error) {
	now := time.Now().UTC()
	var posts []models.Post
	for _, author := range users {
		for n := s.faker.Number(1, max(1, s.opts.MaxPostsPerUser)); n > 0; n-- {
			posts = append(posts, models.Post{
				AuthorID:  author.ID,
				Text:      truncate(s.faker.Sentence(s.faker.Number(3, 12)), maxPostText),
				CreatedAt: now.Add(-time.Duration(s.faker.Number(1, 14*24*60)) * time.Minute),
			})
		}
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := tx.Omit("Author").Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

func (s *Seeder) createLikes(tx *gorm.DB, users []models.User, posts []models.Post) (int, error) {
	var likes []models.Like
	for _, post := range posts {
		n := s.faker.Number(0, len(users))
		for _, j := range s.faker.Rand.Perm(len(users))[:n] {
			likes = append(likes, models.Like{UserID: users[j].ID, PostID: post.ID})
		}
	}
	if len(likes) == 0 {
		return 0, nil
	}
	if err := tx.CreateInBatches(&likes, 200).Error; err != nil {
		return 0, fmt.Errorf("create likes: %w", err)
	}
	return len(likes), nil
}

func (s *Seeder) createComments(tx *gorm.DB, users []models.User, posts []models.Post) (int, error) {
	var comments []models.Comment
	for _, post := range posts {
		for n := s.faker.Number(0, 7); n > 0; n-- {
			author := users[s.faker.Number(0, len(users)-1)]
			comments = append(comments, models.Comment{
				PostID:    post.ID,
				AuthorID:  author.ID,
				Text:      s.faker.Sentence(s.faker.Number(2, 15)),
				CreatedAt: post.CreatedAt.Add(time.Duration(s.faker.Number(1, 600)) * time.Minute),
			})
		}
	}
	if len(comments) == 0 {
		return 0, nil
	}
	if err := tx.Omit("Author", "Post").CreateInBatches(&comments, 200).Error; err != nil {
		return 0, fmt.Errorf("create comments: %w", err)
	}
	return len(comments), nil
}

func truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(lo.Subset([]rune(text), 0, uint(maxRunes))))
}

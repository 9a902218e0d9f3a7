// Package server contains the HTTP handlers and routing for the chorus API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "chorus/docs" // swagger docs
	"chorus/internal/bootstrap"
	"chorus/internal/config"
	"chorus/internal/database"
	"chorus/internal/middleware"
	"chorus/internal/models"
	"chorus/internal/repository"
	"chorus/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "chorus-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	redis   *redis.Client
	limiter *middleware.RateLimiter
	app     *fiber.App

	authService    *service.AuthService
	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	userService    *service.UserService
}

// NewServer wires repositories and services on top of an initialized runtime.
func NewServer(rt *bootstrap.Runtime) *Server {
	cfg := rt.Config

	userRepo := repository.NewUserRepository(rt.DB, rt.ReadDB, rt.Logger)
	postRepo := repository.NewPostRepository(rt.DB, rt.ReadDB, rt.Logger)
	likeRepo := repository.NewLikeRepository(rt.DB, rt.ReadDB, rt.Logger)
	commentRepo := repository.NewCommentRepository(rt.DB, rt.ReadDB, rt.Logger)
	followRepo := repository.NewFollowRepository(rt.DB, rt.ReadDB, rt.Logger)

	enricher := service.NewEnricher(likeRepo, commentRepo)

	return &Server{
		config:  cfg,
		logger:  rt.Logger,
		db:      rt.DB,
		redis:   rt.Redis,
		limiter: middleware.NewRateLimiter(rt.Redis, cfg.Env, rt.Logger),

		authService:    service.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLSeconds)*time.Second, rt.Logger),
		feedService:    service.NewFeedService(postRepo, enricher, rt.Logger),
		postService:    service.NewPostService(postRepo, likeRepo, userRepo, enricher, rt.Logger),
		commentService: service.NewCommentService(commentRepo, postRepo, userRepo, rt.Logger),
		followService:  service.NewFollowService(followRepo, userRepo, rt.Logger),
		userService: service.NewUserService(userRepo, followRepo, postRepo, rt.Storage,
			int64(cfg.AvatarMaxUploadMB)<<20, rt.Logger),
	}
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   "Chorus API",
		BodyLimit: (s.config.AvatarMaxUploadMB + 1) << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
			}
			s.logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return s.respondError(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	middleware.InitMetrics(app, serviceName, "/metrics")
	app.Use(helmet.New(helmet.Config{
		// swagger UI loads inline scripts
		Next: func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/swagger") },
	}))
	app.Use(middleware.StructuredLogger(s.logger))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	if s.config.IsProduction() {
		app.Use(limiter.New(limiter.Config{
			Max:        300,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
					Error: "Too many requests, please try again later.",
				})
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/api/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", s.limiter.Limit("register", 5, 10*time.Minute, middleware.FailOpen), s.Register)
	auth.Post("/login", s.limiter.Limit("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)

	api.Get("/files/avatars/:key", s.GetAvatarFile)

	protected := api.Group("", middleware.AuthRequired(s.config.JWTSecret, service.TokenIssuer))

	feed := protected.Group("/feed")
	feed.Get("/", s.GetFollowingFeed)
	feed.Get("/all", s.GetGlobalFeed)

	posts := protected.Group("/posts")
	posts.Post("/", s.limiter.Limit("create_post", 30, time.Minute, middleware.FailOpen), s.CreatePost)
	posts.Get("/", s.GetMyPosts)
	posts.Get("/user/:userId", s.GetUserPosts)
	posts.Put("/:id/like", s.ToggleLike)
	posts.Post("/:id/comments", s.limiter.Limit("create_comment", 60, time.Minute, middleware.FailOpen), s.CreateComment)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	users := protected.Group("/users")
	users.Get("/", s.SearchUsers)
	users.Get("/profile", s.GetMyProfile)
	users.Put("/profile", s.UpdateMyProfile)
	users.Put("/profile/password", s.ChangePassword)
	users.Post("/profile/avatar", s.UploadAvatar)
	users.Delete("/profile/avatar", s.DeleteAvatar)
	users.Post("/:id/follow", s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)
	users.Get("/:id", s.GetUserProfile)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// ReadinessCheck reports whether the database answers a ping.
// Redis is optional: without it rate limits fail open.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

// Run serves until SIGINT or SIGTERM and then shuts down gracefully.
func (s *Server) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	return s.RunWithQuit(quit)
}

// RunWithQuit behaves like Run but waits on the provided channel instead of
// OS signals.
func (s *Server) RunWithQuit(quit <-chan os.Signal) error {
	app := s.App()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("port", s.config.Port))
		errCh <- app.Listen(":" + s.config.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}

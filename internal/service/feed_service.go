package service

import (
	"context"
	"log/slog"

	"chorus/internal/models"
	"chorus/internal/observability"
	"chorus/internal/repository"
)

// Feed kinds, also used as metric labels.
const (
	FeedGlobal    = "global"
	FeedFollowing = "following"
)

// FeedService assembles timelines: it selects a page of posts and hands it to the Enricher.
type FeedService struct {
	postRepo repository.PostRepository
	enricher *Enricher
	logger   *slog.Logger
}

type FeedInput struct {
	ViewerID uint
	Limit    int
	Offset   int
}

func NewFeedService(postRepo repository.PostRepository, enricher *Enricher, logger *slog.Logger) *FeedService {
	return &FeedService{
		postRepo: postRepo,
		enricher: enricher,
		logger:   loggerOrNop(logger),
	}
}

// GlobalFeed returns every post, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, in FeedInput) ([]models.EnrichedPost, error) {
	posts, err := s.postRepo.ListGlobal(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, FeedGlobal, posts, in)
}

// FollowingFeed returns posts by authors the viewer currently follows,
// including posts written before the follow.
func (s *FeedService) FollowingFeed(ctx context.Context, in FeedInput) ([]models.EnrichedPost, error) {
	posts, err := s.postRepo.ListFollowing(ctx, in.ViewerID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, FeedFollowing, posts, in)
}

func (s *FeedService) assemble(ctx context.Context, kind string, posts []models.Post, in FeedInput) ([]models.EnrichedPost, error) {
	observability.FeedRequests.WithLabelValues(kind).Inc()

	enriched, err := s.enricher.Enrich(ctx, posts, in.ViewerID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "feed assembled",
		slog.String("kind", kind),
		slog.Int("count", len(enriched)),
		slog.Int("limit", in.Limit),
		slog.Int("offset", in.Offset),
	)
	return enriched, nil
}

// Package service implements the feed engine and the business operations behind the HTTP API.
package service

import (
	"context"

	"chorus/internal/models"
	"chorus/internal/observability"
	"chorus/internal/repository"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Enricher decorates a page of posts with counts, the viewer's like state and
// a short preview of the newest comments. It issues the same four reads for
// any non-empty batch and none for an empty one.
type Enricher struct {
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
}

func NewEnricher(likeRepo repository.LikeRepository, commentRepo repository.CommentRepository) *Enricher {
	return &Enricher{
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
	}
}

// Enrich returns one EnrichedPost per input post, in input order.
func (e *Enricher) Enrich(ctx context.Context, posts []models.Post, viewerID uint) (_ []models.EnrichedPost, err error) {
	if len(posts) == 0 {
		return []models.EnrichedPost{}, nil
	}

	ctx, span := observability.StartSpan(ctx, "service.Enrich",
		attribute.Int("batch.size", len(posts)),
		attribute.Int64("viewer.id", int64(viewerID)),
	)
	defer func() { observability.EndSpan(span, err) }()
	done := observability.TrackEnrichment(len(posts))
	defer done()

	ids := lo.Uniq(lo.Map(posts, func(p models.Post, _ int) uint { return p.ID }))

	var (
		likedIDs      []uint
		likeCounts    map[uint]int64
		commentCounts map[uint]int64
		comments      []models.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		likedIDs, err = e.likeRepo.LikedPostIDs(gctx, viewerID, ids)
		return err
	})
	g.Go(func() error {
		var err error
		likeCounts, err = e.likeRepo.CountGroupedByPost(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		commentCounts, err = e.commentRepo.CountGroupedByPost(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = e.commentRepo.ListByPostIDs(gctx, ids)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	liked := lo.Associate(likedIDs, func(id uint) (uint, struct{}) { return id, struct{}{} })
	previews := previewsByPost(comments)

	out := make([]models.EnrichedPost, len(posts))
	for i, p := range posts {
		_, isLiked := liked[p.ID]
		preview := previews[p.ID]
		if preview == nil {
			preview = []models.Comment{}
		}
		out[i] = models.EnrichedPost{
			Post:          p,
			LikesCount:    likeCounts[p.ID],
			IsLiked:       isLiked,
			CommentsCount: commentCounts[p.ID],
			Comments:      preview,
		}
	}
	return out, nil
}

// previewsByPost expects comments newest first and keeps at most
// CommentPreviewSize of them per post.
func previewsByPost(comments []models.Comment) map[uint][]models.Comment {
	grouped := lo.GroupBy(comments, func(c models.Comment) uint { return c.PostID })
	for postID, list := range grouped {
		if len(list) > models.CommentPreviewSize {
			grouped[postID] = list[:models.CommentPreviewSize:models.CommentPreviewSize]
		}
	}
	return grouped
}

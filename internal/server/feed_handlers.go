package server

import (
	"chorus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFollowingFeed handles GET /api/v1/feed
// @Summary Following feed
// @Description Posts by accounts the viewer follows, newest first
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /feed [get]
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	page, err := s.parsePagination(c, defaultPageLimit)
	if err != nil {
		return nil
	}

	posts, err := s.feedService.FollowingFeed(c.UserContext(), service.FeedInput{
		ViewerID: viewerID(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toPostResponses(posts))
}

// GetGlobalFeed handles GET /api/v1/feed/all
// @Summary Global feed
// @Description All posts, newest first
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /feed/all [get]
func (s *Server) GetGlobalFeed(c *fiber.Ctx) error {
	page, err := s.parsePagination(c, defaultPageLimit)
	if err != nil {
		return nil
	}

	posts, err := s.feedService.GlobalFeed(c.UserContext(), service.FeedInput{
		ViewerID: viewerID(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toPostResponses(posts))
}

package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/v1/users/:id/follow
// @Summary Follow user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User to follow"
// @Success 201 {object} FollowResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	follow, err := s.followService.Follow(c.UserContext(), viewerID(c), targetID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFollowResponse(*follow))
}

// UnfollowUser handles DELETE /api/v1/users/:id/follow
// @Summary Unfollow user
// @Tags follows
// @Security BearerAuth
// @Param id path int true "User to unfollow"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), viewerID(c), targetID); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	"chorus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/v1/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string} true "Post text (1-100 chars)"
// @Success 201 {object} PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: viewerID(c),
		Text:     req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toPlainPostResponse(*post))
}

// GetMyPosts handles GET /api/v1/posts
// @Summary My posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} PostResponse
// @Router /posts [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page, err := s.parsePagination(c, defaultPageLimit)
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListMyPosts(c.UserContext(), viewerID(c), page.Limit, page.Offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toPostResponses(posts))
}

// GetUserPosts handles GET /api/v1/posts/user/:userId
// @Summary User posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Author ID"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/user/{userId} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page, err := s.parsePagination(c, defaultPageLimit)
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListUserPosts(c.UserContext(), service.ListUserPostsInput{
		AuthorID: authorID,
		ViewerID: viewerID(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toPostResponses(posts))
}

// GetPost handles GET /api/v1/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID, viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toPostResponse(*post))
}

// ToggleLike handles PUT /api/v1/posts/:id/like
// @Summary Toggle like
// @Description Likes the post if the viewer has not liked it yet, otherwise removes the like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{liked=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [put]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.postService.ToggleLike(c.UserContext(), postID, viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: viewerID(c),
		PostID: postID,
	}); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

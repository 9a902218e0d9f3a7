package server

import (
	"chorus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/v1/posts/:id/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string} true "Comment text (1-1000 chars)"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:   postID,
		AuthorID: viewerID(c),
		Text:     req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toCommentResponse(*comment))
}

// GetComments handles GET /api/v1/posts/:id/comments
// @Summary List comments
// @Description Comments on a post, newest first
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param limit query int false "Page size (1-100)" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} CommentResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.parsePagination(c, defaultCommentLimit)
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), service.ListCommentsInput{
		PostID: postID,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toCommentResponses(comments))
}

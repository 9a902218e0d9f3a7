package server

import (
	"chorus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/v1/auth/register
// @Summary Register
// @Description Create a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Registration request"
// @Success 201 {object} UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(*user))
}

// Login handles POST /api/v1/auth/login
// @Summary Login
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login request"
// @Success 200 {object} service.TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(token)
}

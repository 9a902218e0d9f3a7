package server

import (
	"io"

	"chorus/internal/models"
	"chorus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/v1/users?q=...
// @Summary Search users
// @Description Up to 50 accounts other than the viewer; q filters usernames case-insensitively
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Username fragment (1-50 chars)"
// @Success 200 {array} SearchUserResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	results, err := s.userService.Search(c.UserContext(), c.Query("q"), viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toSearchResponses(results))
}

// GetMyProfile handles GET /api/v1/users/profile
// @Summary My profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Router /users/profile [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	id := viewerID(c)
	profile, err := s.userService.GetProfile(c.UserContext(), id, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toProfileResponse(*profile))
}

// GetUserProfile handles GET /api/v1/users/:id
// @Summary User profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), userID, viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toProfileResponse(*profile))
}

// UpdateMyProfile handles PUT /api/v1/users/profile
// @Summary Update profile
// @Description Omitted fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{email=string,bio=string} true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/profile [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Email *string `json:"email"`
		Bio   *string `json:"bio"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: viewerID(c),
		Email:  req.Email,
		Bio:    req.Bio,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(toUserResponse(*user))
}

// ChangePassword handles PUT /api/v1/users/profile/password
// @Summary Change password
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param request body object{currentPassword=string,newPassword=string} true "Passwords"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/profile/password [put]
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	if err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:          viewerID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadAvatar handles POST /api/v1/users/profile/avatar
// @Summary Upload avatar
// @Description JPEG, PNG or WebP, replaces any previous avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} object{avatar=string,avatarUrl=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile/avatar [post]
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return s.respondError(c, models.NewValidationError("avatar file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	key, err := s.userService.UploadAvatar(c.UserContext(), service.UploadAvatarInput{
		UserID:      viewerID(c),
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"avatar":    key,
		"avatarUrl": avatarPathPrefix + key,
	})
}

// DeleteAvatar handles DELETE /api/v1/users/profile/avatar
// @Summary Delete avatar
// @Tags users
// @Security BearerAuth
// @Success 204
// @Router /users/profile/avatar [delete]
func (s *Server) DeleteAvatar(c *fiber.Ctx) error {
	if err := s.userService.DeleteAvatar(c.UserContext(), viewerID(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAvatarFile handles GET /api/v1/files/avatars/:key
// @Summary Avatar image
// @Description Streams a stored avatar. Keys are immutable so responses are cacheable for a year.
// @Tags files
// @Produce image/jpeg,image/png,image/webp
// @Param key path string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /files/avatars/{key} [get]
func (s *Server) GetAvatarFile(c *fiber.Ctx) error {
	obj, err := s.userService.OpenAvatar(c.UserContext(), c.Params("key"))
	if err != nil {
		return s.respondError(c, err)
	}
	defer func() { _ = obj.Body.Close() }()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	return c.Send(data)
}

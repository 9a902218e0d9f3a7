package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"chorus/internal/middleware"
	"chorus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already committed the response.
// Handlers return nil when they see it.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit    = 20
	defaultCommentLimit = 50
	maxPaginationLimit  = 100
)

// parsePagination reads limit and offset. Out-of-range or non-numeric values
// are rejected with 400, never clamped.
func (s *Server) parsePagination(c *fiber.Ctx, defaultLimit int) (Pagination, error) {
	page := Pagination{Limit: defaultLimit}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPaginationLimit {
			_ = s.respondError(c, models.NewValidationError("limit must be an integer between 1 and 100"))
			return page, errResponseWritten
		}
		page.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			_ = s.respondError(c, models.NewValidationError("offset must be a non-negative integer"))
			return page, errResponseWritten
		}
		page.Offset = offset
	}

	return page, nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = s.respondError(c, models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns "id" into "ID" and "userId" into "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(strings.Join(splitCamel(param[:len(param)-2]), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// viewerID returns the authenticated user id. Routes behind AuthRequired always have one.
func viewerID(c *fiber.Ctx) uint {
	id, _ := middleware.UserID(c)
	return id
}

// respondError writes err with the status its code maps to.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status == fiber.StatusInternalServerError {
		s.logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(),
			"error", err.Error(),
		)
	}
	return models.RespondWithError(c, status, err, !s.config.IsProduction())
}

// parseBody decodes the JSON body into dst or writes a 400.
func (s *Server) parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = s.respondError(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

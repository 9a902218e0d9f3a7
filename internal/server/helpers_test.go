package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chorus/internal/config"
	"chorus/internal/models"
	"chorus/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bareServer() *Server {
	return &Server{
		config: &config.Config{Env: "test"},
		logger: observability.NopLogger(),
	}
}

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"postId", "post ID"},
		{"followedUserId", "followed user ID"},
		{"key", "key"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func paginationApp(s *Server, defaultLimit int) *fiber.App {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p, err := s.parsePagination(c, defaultLimit)
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})
	return app
}

func TestParsePagination_Accepted(t *testing.T) {
	app := paginationApp(bareServer(), 25)

	tests := []struct {
		query      string
		wantLimit  float64
		wantOffset float64
	}{
		{"", 25, 0},
		{"?limit=10&offset=30", 10, 30},
		{"?limit=1", 1, 0},
		{"?limit=100", 100, 0},
		{"?offset=0", 25, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantLimit, body["limit"])
			assert.Equal(t, tt.wantOffset, body["offset"])
		})
	}
}

func TestParsePagination_RejectsOutOfRange(t *testing.T) {
	app := paginationApp(bareServer(), 20)

	for _, query := range []string{"limit=0", "limit=101", "offset=-1", "limit=abc", "offset=1.5", "limit=-5"} {
		t.Run(query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?"+query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, models.CodeValidation, body.Code)
		})
	}
}

func TestParseID(t *testing.T) {
	s := bareServer()
	app := fiber.New()
	app.Get("/users/:userId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "userId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/users/42", fiber.StatusOK},
		{"/users/0", fiber.StatusBadRequest},
		{"/users/-3", fiber.StatusBadRequest},
		{"/users/abc", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusBadRequest {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "Invalid user ID", body.Error)
			}
		})
	}
}

func TestRespondError_HidesDetailsInProduction(t *testing.T) {
	s := bareServer()
	s.config.Env = "production"
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return s.respondError(c, assert.AnError)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeInternal, body.Code)
	assert.Empty(t, body.Details)
}

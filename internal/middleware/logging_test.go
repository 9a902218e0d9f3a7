package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"chorus/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.WrapHandler(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger(logger))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request processed", entry["msg"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.EqualValues(t, fiber.StatusTeapot, entry["status"])
	assert.Equal(t, "GET", entry["method"])
}

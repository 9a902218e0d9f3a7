package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"chorus/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("bypassed outside production-like environments", func(t *testing.T) {
		for _, env := range []string{"", "test", "development"} {
			l := NewRateLimiter(nil, env, observability.NopLogger())
			allowed, err := l.Allow(ctx, "posts", "ip:1", 0, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, env)
		}
	})

	t.Run("nil client errors", func(t *testing.T) {
		l := NewRateLimiter(nil, "production", observability.NopLogger())
		_, err := l.Allow(ctx, "posts", "ip:1", 1, time.Minute)
		assert.ErrorIs(t, err, errNoRedis)
	})

	t.Run("counts within window", func(t *testing.T) {
		mr, rdb := newMiniRedis(t)
		l := NewRateLimiter(rdb, "production", observability.NopLogger())

		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(ctx, "posts", "user:1", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := l.Allow(ctx, "posts", "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.Equal(t, time.Minute, mr.TTL("rl:posts:user:1"))

		mr.FastForward(time.Minute + time.Second)
		allowed, err = l.Allow(ctx, "posts", "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimiter_Limit(t *testing.T) {
	mr, rdb := newMiniRedis(t)

	app := fiber.New()
	l := NewRateLimiter(rdb, "production", observability.NopLogger())
	app.Post("/open", l.Limit("open", 1, time.Minute, FailOpen), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Post("/closed", l.Limit("closed", 1, time.Minute, FailClosed), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	do := func(path string) int {
		resp, err := app.Test(httptest.NewRequest("POST", path, nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusCreated, do("/open"))
	assert.Equal(t, fiber.StatusTooManyRequests, do("/open"))

	mr.Close()
	assert.Equal(t, fiber.StatusServiceUnavailable, do("/closed"))
}

// Package middleware provides the Fiber middleware chain: auth, request context, logging, rate limiting, tracing and metrics.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"chorus/internal/models"
	"chorus/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDLocal is the Fiber locals key holding the authenticated user's id.
const UserIDLocal = "userID"

func unauthorized(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(message), false)
}

// AuthRequired validates an HS256 bearer token issued by issuer and stores
// the subject as the viewer id.
func AuthRequired(secret, issuer string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid authorization header format")
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid or expired token")
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return unauthorized(c, "Invalid token subject")
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || userID == 0 {
			return unauthorized(c, "Invalid user ID in token")
		}

		c.Locals(UserIDLocal, uint(userID))
		ctx := context.WithValue(c.UserContext(), observability.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// UserID returns the authenticated user's id, if AuthRequired ran.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(UserIDLocal).(uint)
	return id, ok && id != 0
}

package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{"forbidden", NewForbiddenError("nope"), fiber.StatusForbidden},
		{"conflict", NewConflictError("dup", nil), fiber.StatusConflict},
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("ctx: %w", NewNotFoundError("User", 2)), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.err))
		})
	}
}

func TestConflictError_KeepsSentinel(t *testing.T) {
	err := NewConflictError("Already following this user", ErrAlreadyFollowing)

	assert.True(t, IsCode(err, CodeConflict))
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
	assert.NotErrorIs(t, err, ErrSelfFollow)
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("Post", 10)
	assert.Equal(t, "Post with ID 10 not found", err.Error())
	assert.Equal(t, CodeNotFound, err.Code)
}

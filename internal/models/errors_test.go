package models

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		// Missing credentials answer 401; a known caller lacking permission
		// answers 403.
		{"authentication", NewAuthenticationError("Authentication required"), fiber.StatusUnauthorized},
		{"unauthorized", NewUnauthorizedError("Not your listing"), fiber.StatusForbidden},
		{"internal", NewInternalError(errors.New("db down")), fiber.StatusInternalServerError},
		{"plain error", errors.New("anything"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

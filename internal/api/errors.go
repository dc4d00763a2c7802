package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/erfrost/playreal-backend/internal/apperrors"
)

// fail maps service errors onto HTTP responses. Anything unmapped is a
// 500 with a generic body; details stay in the logs.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPayload), errors.Is(err, apperrors.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, apperrors.ErrBadCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, apperrors.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrConversationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
	}
}

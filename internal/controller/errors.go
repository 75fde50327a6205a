package controller

import (
	"errors"

	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError converts service sentinels into HTTP statuses. Unknown
// errors pass through and surface as 500 via the error handler.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrQuotaExceeded),
		errors.Is(err, service.ErrSubscriptionRequired):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailNotVerified):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnsupportedDocument):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

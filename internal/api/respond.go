package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"chatdesk/internal/service"
)

// fail maps a service error onto the wire. Sentinel errors carry their
// own status; anything else is a 500 with the detail kept server-side.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = fiber.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrAccountInactive):
		status, message = fiber.StatusForbidden, "account is not active"
	case errors.Is(err, service.ErrForbidden):
		status, message = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrDuplicateAccount):
		status, message = fiber.StatusConflict, "account already exists"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

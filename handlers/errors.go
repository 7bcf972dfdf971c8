package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"matchboard/services"
)

// writeError maps service errors onto status codes. Storage failures are
// logged and never leak details to the caller.
func writeError(c *fiber.Ctx, err error) error {
	var (
		ve *services.ValidationError
		fe *services.ForbiddenError
		nf *services.NotFoundError
		ie *services.InvalidStateError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve.Fields})
	case errors.As(err, &fe):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": fe.Error()})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Error()})
	case errors.As(err, &ie):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": ie.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUploadsDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		slog.Error("http: Request failed", "error", err, "method", c.Method(), "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func badJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "invalid JSON",
		"details": err.Error(),
	})
}

func fieldError(field, msg string) error {
	return &services.ValidationError{Fields: map[string]string{field: msg}}
}

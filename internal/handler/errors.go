package handlers

import (
	"github.com/fathima-sithara/chat-profile-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindInvalidInput:
		return fiber.StatusBadRequest
	case service.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"error": message} with the status matching the error kind.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(service.KindOf(err))
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

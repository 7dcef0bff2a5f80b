package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"chatdesk/internal/repository"
)

type HealthHandler struct {
	store repository.Store
	log   *slog.Logger
}

func NewHealthHandler(store repository.Store, log *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: log}
}

func (h *HealthHandler) Healthy(c *fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		h.log.Error("database health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

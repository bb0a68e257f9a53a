package handlers

import (
	"github.com/gofiber/fiber/v2"

	"media-vault/internal/config"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// GET /api/health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "media-vault",
		"version": config.Version,
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simonolocco/bot-wasap/internal/services"
)

// HealthHandler reports process health for monitoring.
type HealthHandler struct {
	bot       *services.BotService
	messenger *services.CloudService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(bot *services.BotService, messenger *services.CloudService) *HealthHandler {
	return &HealthHandler{bot: bot, messenger: messenger}
}

// HandleHealth returns the service status.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"services": fiber.Map{
			"whatsapp": h.messenger.Configured(),
			"sessions": h.bot.Sessions().Count(),
		},
	})
}

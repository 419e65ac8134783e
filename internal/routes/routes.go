package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simonolocco/bot-wasap/internal/handlers"
	"github.com/simonolocco/bot-wasap/internal/middleware"
	"github.com/simonolocco/bot-wasap/internal/services"
	"github.com/simonolocco/bot-wasap/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, bot *services.BotService, messenger *services.CloudService) {
	webhook := handlers.NewWebhookHandler(bot)
	adminSessions := middleware.NewAdminSessionStore()
	admin := handlers.NewAdminHandler(store, adminSessions)
	health := handlers.NewHealthHandler(bot, messenger)

	app.Get("/health", health.HandleHealth)

	// ========== WHATSAPP WEBHOOK ==========
	app.Get("/webhook", webhook.HandleVerification)
	app.Post("/webhook", webhook.HandleEvent)

	// Static assets: the voice note sent with the price list, and the panel.
	app.Static("/static", "./public")
	app.Static("/admin", "./admin/public")

	// ========== ADMIN API ==========
	api := app.Group("/api")
	api.Get("/session", admin.HandleSession)
	api.Post("/login", admin.HandleLogin)
	api.Post("/logout", admin.HandleLogout)

	// Everything below needs a live admin session.
	api.Use(middleware.RequireAdminSession(adminSessions))
	api.Get("/orders", admin.HandleListOrders)
	api.Get("/orders/:id", admin.HandleGetOrder)
	api.Post("/orders/:id/accept", admin.HandleAcceptOrder)
	api.Get("/aliases/pending", admin.HandlePendingAliases)
	api.Post("/aliases/assign", admin.HandleAssignAlias)
	api.Get("/unit-aliases/pending", admin.HandlePendingUnitAliases)
	api.Post("/unit-aliases/assign", admin.HandleAssignUnitAlias)
	api.Get("/products/search", admin.HandleProductSearch)
}

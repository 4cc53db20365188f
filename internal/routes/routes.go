package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talenthive/hrbot-backend/internal/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, conversation *handlers.ConversationHandler, health *handlers.HealthHandler) {
	app.Get("/", health.Online)
	app.Get("/zobot", health.Online) // legacy path kept for existing channel configs
	app.Get("/health", health.Check)

	// ========== WEBHOOK ROUTES ==========
	app.Post("/conversation", conversation.HandleWebhook)
	app.Post("/zobot", conversation.HandleWebhook)
}

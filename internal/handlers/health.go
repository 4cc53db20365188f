package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler handles health check requests
type HealthHandler struct {
	Version       string
	StorageMode   string
	SMSConfigured bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, storageMode string, smsConfigured bool) *HealthHandler {
	return &HealthHandler{
		Version:       version,
		StorageMode:   storageMode,
		SMSConfigured: smsConfigured,
	}
}

// Online returns the static online message for GET /
func (h *HealthHandler) Online(c *fiber.Ctx) error {
	return c.SendString("HR Bot is Online.")
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"service": "HR Bot Backend",
		"version": h.Version,
		"storage": h.StorageMode,
		"sms":     h.SMSConfigured,
	})
}

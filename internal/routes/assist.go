package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/support"
)

// RegisterAssistRoutes wires the chat assistant. It stays public so guests
// can ask navigation questions before registering.
func RegisterAssistRoutes(r fiber.Router, h *support.Handler) {
	r.Post("/assist", h.Resolve)
}

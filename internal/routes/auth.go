package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/account"
)

// RegisterAuthRoutes wires the action-dispatch auth endpoint. The rate
// limiter covers every action since each carries credentials or a session.
func RegisterAuthRoutes(r fiber.Router, h *account.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/auth", rateLimiter, h.Dispatch)
		return
	}
	r.Post("/auth", h.Dispatch)
}

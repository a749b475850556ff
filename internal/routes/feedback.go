package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/feedback"
	"github.com/scootgate/scootgate/internal/middleware"
	"github.com/scootgate/scootgate/internal/record"
)

// RegisterFeedbackRoutes wires feedback submission and listing.
func RegisterFeedbackRoutes(r fiber.Router, h *feedback.Handler) {
	group := r.Group("/feedback")

	group.Post("", h.Submit)
	group.Get("/mine", h.Mine)

	operator := middleware.RequireRole(record.RoleFranchiseOperator)
	group.Get("/booking/:bookingId", operator, h.ForBooking)
}

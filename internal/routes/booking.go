package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/booking"
	"github.com/scootgate/scootgate/internal/logging"
	"github.com/scootgate/scootgate/internal/middleware"
	"github.com/scootgate/scootgate/internal/record"
)

// RegisterBookingRoutes wires the booking workflow. Submission is guarded
// by the idempotency middleware so client retries cannot double-book.
func RegisterBookingRoutes(r fiber.Router, h *booking.Handler, d Deps) {
	group := r.Group("/bookings")

	submit := []fiber.Handler{h.Submit}
	if d.Cache != nil {
		submit = append([]fiber.Handler{middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, logging.Component(d.Logger, "idempotency"))}, submit...)
	}
	group.Post("", submit...)

	group.Get("/mine", h.Mine)
	group.Get("/:bookingId", h.Get)

	operator := middleware.RequireRole(record.RoleFranchiseOperator)
	group.Get("/pending/list", operator, h.Pending)
	group.Post("/:bookingId/decision", operator, h.Decide)
}

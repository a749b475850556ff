package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/fleet"
	"github.com/scootgate/scootgate/internal/middleware"
	"github.com/scootgate/scootgate/internal/record"
)

// RegisterFleetPublicRoutes wires the inventory endpoints guests can browse.
func RegisterFleetPublicRoutes(r fiber.Router, h *fleet.Handler) {
	group := r.Group("/vehicles")
	group.Get("", h.List)
	group.Get("/:vehicleId", h.Get)
}

// RegisterFleetOperatorRoutes wires the endpoints reserved for franchise
// operators.
func RegisterFleetOperatorRoutes(r fiber.Router, h *fleet.Handler) {
	operator := middleware.RequireRole(record.RoleFranchiseOperator)
	group := r.Group("/vehicles")
	group.Post("", operator, h.Add)
	group.Get("/mine/list", operator, h.Mine)
}

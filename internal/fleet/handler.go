package fleet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a fleet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addRequest struct {
	Type             string `json:"type"`
	Model            string `json:"model"`
	RateCents        int64  `json:"rate_cents"`
	DiscountPercent  int    `json:"discount_percent"`
	BatteryLifeKM    int    `json:"battery_life_km"`
	HeightAdjustable bool   `json:"height_adjustable"`
}

type vehicleResponse struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	Model            string `json:"model"`
	OperatorID       string `json:"operator_id"`
	RateCents        int64  `json:"rate_cents"`
	DiscountPercent  int    `json:"discount_percent"`
	BatteryLifeKM    int    `json:"battery_life_km"`
	HeightAdjustable bool   `json:"height_adjustable"`
}

func toResponse(v Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:               v.ID,
		Type:             v.Type,
		Model:            v.Model,
		OperatorID:       v.OperatorID,
		RateCents:        v.RateCents,
		DiscountPercent:  v.DiscountPercent,
		BatteryLifeKM:    v.BatteryLifeKM,
		HeightAdjustable: v.HeightAdjustable,
	}
}

// Add lists a vehicle under the authenticated operator.
func (h *Handler) Add(c *fiber.Ctx) error {
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	operatorID, _ := c.Locals("user_id").(string)
	vehicle, err := h.service.Add(c.UserContext(), AddInput{
		Type:             req.Type,
		Model:            req.Model,
		OperatorID:       operatorID,
		RateCents:        req.RateCents,
		DiscountPercent:  req.DiscountPercent,
		BatteryLifeKM:    req.BatteryLifeKM,
		HeightAdjustable: req.HeightAdjustable,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidVehicle) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(vehicle))
}

// Get returns one vehicle.
func (h *Handler) Get(c *fiber.Ctx) error {
	vehicle, err := h.service.Get(c.UserContext(), c.Params("vehicleId"))
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(vehicle))
}

// List returns the public inventory.
func (h *Handler) List(c *fiber.Ctx) error {
	vehicles, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toResponse(v))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"vehicles": out})
}

// Mine returns the authenticated operator's vehicles.
func (h *Handler) Mine(c *fiber.Ctx) error {
	operatorID, _ := c.Locals("user_id").(string)
	vehicles, err := h.service.ListByOperator(c.UserContext(), operatorID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toResponse(v))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"vehicles": out})
}

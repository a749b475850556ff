package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/fleet"
)

// Handler exposes booking HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a booking HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	VehicleID string    `json:"vehicle_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type decideRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

type bookingResponse struct {
	ID         string    `json:"id"`
	VehicleID  string    `json:"vehicle_id"`
	CustomerID string    `json:"customer_id"`
	OperatorID string    `json:"operator_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
}

func toResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		VehicleID:  b.VehicleID,
		CustomerID: b.CustomerID,
		OperatorID: b.OperatorID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     b.Status,
		Reason:     b.Reason,
	}
}

// Submit files a booking request for the authenticated customer.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	customerID, _ := c.Locals("user_id").(string)
	b, err := h.service.Submit(c.UserContext(), SubmitInput{
		CustomerID: customerID,
		VehicleID:  req.VehicleID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(b))
}

// Decide records the authenticated operator's verdict.
func (h *Handler) Decide(c *fiber.Ctx) error {
	var req decideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	operatorID, _ := c.Locals("user_id").(string)
	b, err := h.service.Decide(c.UserContext(), DecideInput{
		BookingID:  c.Params("bookingId"),
		OperatorID: operatorID,
		Approve:    req.Approve,
		Reason:     req.Reason,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(b))
}

// Get returns one booking by reference.
func (h *Handler) Get(c *fiber.Ctx) error {
	b, err := h.service.Lookup(c.UserContext(), c.Params("bookingId"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(b))
}

// Pending lists the authenticated operator's approval queue.
func (h *Handler) Pending(c *fiber.Ctx) error {
	operatorID, _ := c.Locals("user_id").(string)
	bookings, err := h.service.PendingForOperator(c.UserContext(), operatorID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"bookings": toResponses(bookings)})
}

// Mine lists the authenticated customer's bookings.
func (h *Handler) Mine(c *fiber.Ctx) error {
	customerID, _ := c.Locals("user_id").(string)
	bookings, err := h.service.ListForCustomer(c.UserContext(), customerID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"bookings": toResponses(bookings)})
}

func toResponses(bookings []Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toResponse(b))
	}
	return out
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidBooking):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrAlreadyDecided):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, fleet.ErrVehicleNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

package feedback

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes feedback HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a feedback HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	BookingID    string `json:"booking_id"`
	Message      string `json:"message"`
	ContactEmail string `json:"contact_email"`
}

type feedbackResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	BookingID    string    `json:"booking_id"`
	Message      string    `json:"message"`
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toResponse(f Feedback) feedbackResponse {
	return feedbackResponse{
		ID:           f.ID,
		CustomerID:   f.CustomerID,
		BookingID:    f.BookingID,
		Message:      f.Message,
		ContactEmail: f.ContactEmail,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
	}
}

// Submit files feedback for the authenticated customer.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	customerID, _ := c.Locals("user_id").(string)
	f, err := h.service.Submit(c.UserContext(), SubmitInput{
		CustomerID:   customerID,
		BookingID:    req.BookingID,
		Message:      req.Message,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(f))
}

// Mine lists the authenticated customer's feedback.
func (h *Handler) Mine(c *fiber.Ctx) error {
	customerID, _ := c.Locals("user_id").(string)
	entries, err := h.service.ListForCustomer(c.UserContext(), customerID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"feedback": toResponses(entries)})
}

// ForBooking lists feedback filed against one booking.
func (h *Handler) ForBooking(c *fiber.Ctx) error {
	entries, err := h.service.ListForBooking(c.UserContext(), c.Params("bookingId"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"feedback": toResponses(entries)})
}

func toResponses(entries []Feedback) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(entries))
	for _, f := range entries {
		out = append(out, toResponse(f))
	}
	return out
}

func mapError(err error) error {
	if errors.Is(err, ErrInvalidFeedback) {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}

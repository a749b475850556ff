package support

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the chat assistant endpoint.
type Handler struct {
	assistant *Assistant
}

// NewHandler builds an assistant HTTP handler.
func NewHandler(assistant *Assistant) *Handler {
	return &Handler{assistant: assistant}
}

type intentRequest struct {
	Intent string            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}

// Resolve handles one conversation turn. The user identity comes from the
// JWT when present so anonymous visitors can still use navigation help.
func (h *Handler) Resolve(c *fiber.Ctx) error {
	var req intentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	userID, _ := c.Locals("user_id").(string)
	res := h.assistant.Handle(c.UserContext(), IntentRequest{
		Intent: req.Intent,
		UserID: userID,
		Slots:  req.Slots,
	})
	return c.Status(http.StatusOK).JSON(res)
}

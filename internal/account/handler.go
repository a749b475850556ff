package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/challenge"
)

// Handler exposes the single action-dispatch auth endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs an auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type authRequest struct {
	Action           string `json:"action"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
	OTP              string `json:"otp"`
	Session          string `json:"session"`
	Answer           string `json:"answer"`
	AccessToken      string `json:"accessToken"`
	NewPassword      string `json:"newPassword"`
}

// Dispatch routes one auth action. Sign-up is two-phase: without an OTP it
// registers, with one it confirms.
func (h *Handler) Dispatch(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	switch req.Action {
	case "signup":
		if req.OTP != "" {
			return h.confirm(c, req)
		}
		return h.register(c, req)
	case "login":
		return h.login(c, req)
	case "respond_to_challenge":
		return h.respond(c, req)
	case "change_password":
		return h.changePassword(c, req)
	case "logout":
		return h.logout(c, req)
	default:
		return fiber.NewError(http.StatusBadRequest, "unknown action")
	}
}

func (h *Handler) register(c *fiber.Ctx, req authRequest) error {
	if _, err := h.service.Register(c.UserContext(), RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Name,
		Role:             req.Role,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	}); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "User registration initiated. A confirmation code has been sent.",
	})
}

func (h *Handler) confirm(c *fiber.Ctx, req authRequest) error {
	if err := h.service.ConfirmRegistration(c.UserContext(), req.Email, req.OTP); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "User confirmed successfully. You can now sign in.",
	})
}

func (h *Handler) login(c *fiber.Ctx, req authRequest) error {
	res, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}
	return writeLoginResult(c, res)
}

func (h *Handler) respond(c *fiber.Ctx, req authRequest) error {
	res, err := h.service.RespondToChallenge(c.UserContext(), req.Email, req.Session, req.Answer)
	if err != nil {
		return mapError(err)
	}
	return writeLoginResult(c, res)
}

func (h *Handler) changePassword(c *fiber.Ctx, req authRequest) error {
	tokens, err := h.service.ChangePassword(c.UserContext(), req.Email, req.AccessToken, req.NewPassword)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":     "Password changed successfully.",
		"idToken":     tokens.IDToken,
		"accessToken": tokens.AccessToken,
		"expiresIn":   tokens.ExpiresIn,
	})
}

func (h *Handler) logout(c *fiber.Ctx, req authRequest) error {
	if err := h.service.Logout(c.UserContext(), req.Email, req.AccessToken); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Signed out. Sign in again to continue."})
}

// writeLoginResult renders either the issued tokens or, when verification
// rounds remain, a 401 carrying the session and public challenge material.
func writeLoginResult(c *fiber.Ctx, res LoginResult) error {
	if res.Authenticated() {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message":     "Authentication successful.",
			"idToken":     res.Tokens.IDToken,
			"accessToken": res.Tokens.AccessToken,
			"expiresIn":   res.Tokens.ExpiresIn,
			"role":        res.Tokens.Role,
		})
	}

	body := fiber.Map{
		"message":   "Additional verification required.",
		"session":   res.Session,
		"challenge": res.ChallengeName,
	}
	switch res.ChallengeName {
	case challenge.NameSecurityQuestion:
		body["securityQuestion"] = res.Challenge[challenge.ParamQuestion]
	case challenge.NameCipher:
		body["cipherText"] = res.Challenge[challenge.ParamCipherText]
	}
	return c.Status(http.StatusUnauthorized).JSON(body)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAuthFailed):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

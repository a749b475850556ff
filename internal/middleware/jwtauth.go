package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scootgate/scootgate/internal/provider"
	"github.com/scootgate/scootgate/internal/record"
)

// JWTAuth validates bearer tokens against the identity provider and exposes
// the subject and role to downstream handlers.
func JWTAuth(p provider.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		identity, err := p.VerifyToken(c.UserContext(), tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", identity.Email)
		c.Locals("role", string(identity.Role))
		return c.Next()
	}
}

// RequireRole gates a route on the authenticated role. Must run after
// JWTAuth.
func RequireRole(role record.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, _ := c.Locals("role").(string)
		if got != string(role) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

package middleware

import (
	"strings"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// RequireAuth validates the bearer token against the user's current session and
// stores the resolved identity for downstream handlers
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"message": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"message": "Invalid authorization format. Use: Bearer <token>"})
		}

		identity, err := authService.Identify(parts[1])
		if err != nil {
			appErr := apperr.As(err)
			if appErr.Kind == apperr.KindInternal {
				return c.Status(500).JSON(fiber.Map{"message": "Internal server error"})
			}
			return c.Status(401).JSON(fiber.Map{"message": appErr.Message})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole admits the authenticated identity when its role is one of roles.
// Admins are always admitted.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch auth.Authorize(Identity(c), roles...) {
		case auth.Allowed:
			return c.Next()
		case auth.Forbidden:
			return c.Status(403).JSON(fiber.Map{
				"message": "Forbidden: requires role " + strings.Join(roles, " or "),
			})
		default:
			return c.Status(401).JSON(fiber.Map{"message": "Unauthorized"})
		}
	}
}

// Identity returns the identity set by RequireAuth, or nil on public routes
func Identity(c *fiber.Ctx) *auth.Identity {
	identity, _ := c.Locals(identityKey).(*auth.Identity)
	return identity
}

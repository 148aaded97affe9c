package middleware

import (
	"strings"

	"github.com/Zaharysh37/order-service/internal/auth"
	"github.com/gofiber/fiber/v2"
)

// NewAuthMiddleware verifies the bearer token and stashes the acting
// identity plus the raw token in the request context. The token is kept so
// outbound user directory calls can forward the caller's credentials.
func NewAuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missing header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid header format"})
		}
		token := parts[1]

		identity, err := auth.ParseToken(token, jwtSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid token"})
		}

		ctx := auth.WithIdentity(c.UserContext(), identity)
		ctx = auth.WithToken(ctx, token)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

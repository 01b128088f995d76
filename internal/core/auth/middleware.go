package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUID   = "uid"
	LocalEmail = "email"
)

// AuthMiddleware rejects requests without a valid Bearer session token
func AuthMiddleware(jwtService *JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalUID, claims.UID)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}

// CurrentUID returns the uid stored by AuthMiddleware, or "" outside it
func CurrentUID(c *fiber.Ctx) string {
	uid, _ := c.Locals(LocalUID).(string)
	return uid
}

// CurrentEmail returns the email stored by AuthMiddleware
func CurrentEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}

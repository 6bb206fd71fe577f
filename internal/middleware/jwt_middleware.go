package middleware

import (
	"log"
	"strings"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token. On
// success the numeric user id and username are stored in the request
// context for the handlers.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		userID, username, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals("user_id", userID)
		c.Locals("username", username)

		return c.Next()
	}
}

// AdminRequired restricts a route group to the configured allow-list of
// privileged user ids. It must run after AuthRequired.
func AdminRequired(adminIDs []int64) fiber.Handler {
	allowed := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		allowed[id] = true
	}
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(int64)
		if !ok || !allowed[userID] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin privileges are required",
			})
		}
		return c.Next()
	}
}

// UserID extracts the authenticated user id stored by AuthRequired.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}

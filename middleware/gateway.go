// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// BotTokenMiddleware validates the Bearer token sent by the chat bot
// integration. An empty expected token disables the machine API.
func BotTokenMiddleware(expectedToken string) fiber.Handler {
	if expectedToken == "" {
		slog.Warn("bot api: BOT_API_TOKEN is not set, machine routes are disabled")
	}

	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "bot api is disabled",
			})
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			slog.Info("bot api: Missing Authorization header", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "bot authentication token missing",
			})
		}

		// Accept both "Bearer <token>" and the raw token.
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			slog.Info("bot api: Invalid token", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid bot authentication token",
			})
		}
		return c.Next()
	}
}

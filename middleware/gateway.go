package middleware

import (
	"crypto/subtle"
	"strings"

	"team-ops-system/logging"

	"github.com/gofiber/fiber/v2"
)

// ServiceTokenMiddleware guards internal routes called by the match recorder.
func ServiceTokenMiddleware(expectedToken string) fiber.Handler {
	if expectedToken == "" {
		panic("middleware: empty service token")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logging.Logger().Warnf("[SERVICE_AUTH] missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "service token missing",
			})
		}

		// Parse "Bearer <token>", raw values are accepted too
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			logging.Logger().Warnf("[SERVICE_AUTH] invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid service token",
			})
		}

		return c.Next()
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CurrentVersion is the API version served when the client does not ask for one
const CurrentVersion = "1.0.0"

var supportedVersions = map[string]string{
	"1":     CurrentVersion,
	"1.0":   CurrentVersion,
	"1.0.0": CurrentVersion,
}

// VersionMiddleware parses the X-Api-Version header, rejects versions this service does not
// speak, stores the resolved version in context and echoes it back
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", CurrentVersion)

		// Support version aliases
		version, ok := supportedVersions[requested]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unsupported API version "+requested)
		}

		// Store version in context
		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}

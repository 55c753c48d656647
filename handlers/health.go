package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthChecker is anything that can report whether it is reachable.
type HealthChecker interface {
	HealthCheck() error
}

// HandleCheckHealth reports service health. A nil store is reported as
// disabled rather than unhealthy.
func HandleCheckHealth(store HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.JSON(fiber.Map{"status": "ok", "database": "disabled"})
		}
		if err := store.HealthCheck(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"database": "unreachable",
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
	}
}

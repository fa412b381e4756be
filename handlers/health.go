package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/database"
)

// HandleCheckHealth reports liveness and datastore reachability.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	status := "ok"
	if store != nil {
		if err := store.HealthCheck(); err != nil {
			status = "degraded"
		}
	}
	return c.JSON(fiber.Map{"status": status})
}

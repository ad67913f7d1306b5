package routes

import (
	"github.com/gofiber/fiber/v2"
)

// HealthReporter ให้ /health รายงานสถานะ component เพิ่มเติม
type HealthReporter func() fiber.Map

func SetupHealthRoutes(app *fiber.App, report HealthReporter) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"message": "Server is running",
		}
		if report != nil {
			for k, v := range report() {
				body[k] = v
			}
		}
		return c.JSON(body)
	})
}

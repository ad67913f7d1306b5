package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskhub-api/interfaces/api/handlers"
	"taskhub-api/interfaces/api/middleware"
	wsHandler "taskhub-api/interfaces/api/websocket"
)

// Deps คือสิ่งที่ routes ต้องใช้นอกจาก handlers
type Deps struct {
	Handlers  *handlers.Handlers
	WebSocket *wsHandler.WebSocketHandler // nil = ไม่เปิด /ws
	Auth      fiber.Handler               // bearer header
	AuthQuery fiber.Handler               // ?token= สำหรับ /ws
	Health    HealthReporter
}

func SetupRoutes(app *fiber.App, d *Deps) {
	SetupHealthRoutes(app, d.Health)

	api := app.Group("/api")

	SetupAuthRoutes(api, d.Handlers)
	SetupUserRoutes(api, d.Handlers, d.Auth)
	SetupTaskRoutes(api, d.Handlers, d.Auth)

	if d.WebSocket != nil {
		SetupWebSocketRoutes(app, d.WebSocket, d.AuthQuery)
	}

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})
}

// SetupMiddleware ลำดับมีผล: request id ก่อน logger, recover อยู่ใน logger
func SetupMiddleware(app *fiber.App, rateLimit middleware.RateLimitConfig, corsOrigins string) {
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.Recover())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.CorsMiddleware(corsOrigins))
	app.Use(middleware.RateLimiter(rateLimit))
}

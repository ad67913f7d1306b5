package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"taskhub-api/interfaces/api/handlers"
	"taskhub-api/interfaces/api/middleware"
	"taskhub-api/interfaces/api/routes"
	wsHandler "taskhub-api/interfaces/api/websocket"
	"taskhub-api/pkg/di"
	"taskhub-api/pkg/logger"
)

func main() {
	// Initialize DI container
	container := di.NewContainer()

	// Initialize all dependencies (including logger)
	if err := container.Initialize(); err != nil {
		// ใช้ log พื้นฐานก่อน logger init
		panic("Failed to initialize container: " + err.Error())
	}
	cfg := container.Config

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      cfg.App.Name,
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	routes.SetupMiddleware(app, middleware.RateLimitConfig{
		Max:     cfg.RateLimit.Max,
		Window:  cfg.RateLimit.Window,
		Storage: container.LimiterStorage(),
	}, cfg.CORS.AllowOrigins)

	routes.SetupRoutes(app, &routes.Deps{
		Handlers:  handlers.NewHandlers(container.GetHandlerServices()),
		WebSocket: wsHandler.NewWebSocketHandler(container.Hub),
		Auth:      middleware.Protected(container.TokenService, container.UserService),
		AuthQuery: middleware.ProtectedQuery(container.TokenService, container.UserService),
		Health:    container.HealthReport,
	})

	setupGracefulShutdown(app, container)

	port := cfg.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", cfg.App.Env,
		"app", cfg.App.Name,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+port+"/health",
		"api", "http://localhost:"+port+"/api",
		"websocket", "ws://localhost:"+port+"/ws",
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(app *fiber.App, container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		// หยุดรับ request ใหม่ก่อน แล้วค่อยปิด infrastructure
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Error shutting down server", "error", err)
		}

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}

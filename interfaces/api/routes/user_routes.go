package routes

import (
	"github.com/gofiber/fiber/v2"
	"taskhub-api/domain/policy"
	"taskhub-api/interfaces/api/handlers"
	"taskhub-api/interfaces/api/middleware"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	users := api.Group("/users", protected)
	users.Get("/", middleware.Authorize(policy.ActionListUsers), h.UserHandler.ListUsers)
	users.Get("/profile", middleware.Authorize(policy.ActionReadProfile), h.UserHandler.GetProfile)
	users.Put("/profile", middleware.Authorize(policy.ActionUpdateProfile), h.UserHandler.UpdateProfile)
}

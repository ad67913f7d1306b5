package routes

import (
	"github.com/gofiber/fiber/v2"
	"taskhub-api/domain/policy"
	"taskhub-api/interfaces/api/handlers"
	"taskhub-api/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	tasks := api.Group("/tasks", protected)

	// /new และ /stats ต้องมาก่อน /:id
	tasks.Get("/new", middleware.Authorize(policy.ActionCreate), h.TaskHandler.NewTaskForm)
	tasks.Get("/stats", middleware.Authorize(policy.ActionReadStats), h.TaskHandler.GetTaskStats)

	tasks.Post("/", middleware.Authorize(policy.ActionCreate), h.TaskHandler.CreateTask)
	tasks.Get("/", middleware.Authorize(policy.ActionReadAll), h.TaskHandler.ListTasks)
	tasks.Get("/:id", middleware.Authorize(policy.ActionRead), h.TaskHandler.GetTask)
	tasks.Put("/:id", middleware.Authorize(policy.ActionUpdate), h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", middleware.Authorize(policy.ActionDelete), h.TaskHandler.DeleteTask)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskhub-api/domain/dto"
	"taskhub-api/domain/services"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) NewTaskForm(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	form, err := h.taskService.NewTaskForm(c.UserContext(), user.Actor())
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, form)
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.CreateTask(ctx, user.Actor(), &req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskMutationResponse{
		Message: "Task created successfully",
		Task:    dto.TaskToTaskResponse(task),
	})
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	tasks, err := h.taskService.ListTasks(c.UserContext(), user.Actor())
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

func (h *TaskHandler) GetTaskStats(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	stats, err := h.taskService.GetTaskStats(c.UserContext(), user.Actor())
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, stats)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	task, err := h.taskService.GetTask(c.UserContext(), user.Actor(), taskID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.UpdateTask(ctx, user.Actor(), taskID, &req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskMutationResponse{
		Message: "Task updated successfully",
		Task:    dto.TaskToTaskResponse(task),
	})
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	if err := h.taskService.DeleteTask(c.UserContext(), user.Actor(), taskID); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.MessageResponse(c, "Task deleted successfully")
}

// id ที่ไม่ใช่ uuid ไม่มีทางมีอยู่จริง ตอบ 404 เหมือนหาไม่เจอ
func parseTaskID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

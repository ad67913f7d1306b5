package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"taskhub-api/domain/dto"
	"taskhub-api/domain/models"
	"taskhub-api/domain/policy"
	"taskhub-api/domain/ports"
	"taskhub-api/domain/repositories"
	"taskhub-api/domain/services"
	"taskhub-api/pkg/apperror"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

type TaskServiceImpl struct {
	taskRepo repositories.TaskRepository
	userRepo repositories.UserRepository
	events   ports.TaskEventPublisher // nil = ไม่ส่ง event
	now      func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, userRepo repositories.UserRepository, events ports.TaskEventPublisher) services.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
		events:   events,
		now:      time.Now,
	}
}

func (s *TaskServiceImpl) NewTaskForm(ctx context.Context, actor policy.Actor) (*dto.TaskFormResponse, error) {
	if d := policy.AuthorizeTask(actor, policy.ActionCreate, nil); !d.Allowed {
		return nil, d.Err
	}

	return &dto.TaskFormResponse{
		Title:       "",
		Description: "",
		DueDate:     s.now(),
		Priority:    models.TaskPriorityMedium,
		Status:      models.TaskStatusTodo,
		AssignedTo:  nil,
	}, nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor policy.Actor, req *dto.CreateTaskRequest) (*models.Task, error) {
	if d := policy.AuthorizeTask(actor, policy.ActionCreate, nil); !d.Allowed {
		logger.WarnContext(ctx, "Task creation denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, d.Err
	}

	if err := utils.ValidateStruct(req); err != nil {
		msg := "Invalid task data"
		if utils.HasMissingField(err) {
			msg = "Missing required fields"
		}
		return nil, apperror.Validation(msg).WithDetails(utils.GetValidationErrors(err))
	}

	assignee, err := s.resolveAssignee(ctx, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     *req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  assignee,
		CreatedBy:   actor.ID,
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "actor_id", actor.ID, "error", err)
		return nil, apperror.Internal("failed to create task", err)
	}

	created, err := s.taskRepo.GetByID(ctx, task.ID)
	if err != nil {
		return nil, apperror.Internal("failed to reload task", err)
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID, "assigned_to", assignee)

	s.publish(ctx, ports.TaskEventCreated, actor, created, nil)

	return created, nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, actor policy.Actor) ([]*models.Task, error) {
	if d := policy.AuthorizeTask(actor, policy.ActionReadAll, nil); !d.Allowed {
		return nil, d.Err
	}

	tasks, err := s.taskRepo.Find(ctx, repositories.TaskFilter{AssignedTo: policy.TaskScope(actor)})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "actor_id", actor.ID, "error", err)
		return nil, apperror.Internal("failed to list tasks", err)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTaskStats(ctx context.Context, actor policy.Actor) (*dto.TaskStatsResponse, error) {
	if d := policy.AuthorizeTask(actor, policy.ActionReadStats, nil); !d.Allowed {
		return nil, d.Err
	}

	scope := policy.TaskScope(actor)

	total, err := s.taskRepo.Count(ctx, repositories.TaskFilter{AssignedTo: scope})
	if err != nil {
		return nil, apperror.Internal("failed to count tasks", err)
	}

	completed := models.TaskStatusCompleted
	done, err := s.taskRepo.Count(ctx, repositories.TaskFilter{AssignedTo: scope, Status: &completed})
	if err != nil {
		return nil, apperror.Internal("failed to count tasks", err)
	}

	return &dto.TaskStatsResponse{
		TotalTasks:     total,
		CompletedTasks: done,
		PendingTasks:   total - done,
	}, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, actor policy.Actor, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if d := policy.AuthorizeTask(actor, policy.ActionRead, &task.AssignedTo); !d.Allowed {
		return nil, d.Err
	}
	return task, nil
}

// UpdateTask checks existence, then ownership, then decodes and validates
// only the fields the actor may change. Other submitted fields are ignored.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, actor policy.Actor, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if d := policy.AuthorizeTask(actor, policy.ActionUpdate, &task.AssignedTo); !d.Allowed {
		logger.WarnContext(ctx, "Task update denied", "task_id", taskID, "actor_id", actor.ID)
		return nil, d.Err
	}

	fields := policy.UpdatableTaskFields(actor)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	if err := req.Bind(names...); err != nil {
		return nil, apperror.Validation("Invalid task data").WithDetails(utils.GetValidationErrors(err))
	}
	if err := utils.ValidatePartial(req, names...); err != nil {
		return nil, apperror.Validation("Invalid task data").WithDetails(utils.GetValidationErrors(err))
	}

	patch := policy.TaskPatch{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if id, err := uuid.Parse(req.AssignedTo); err == nil {
		patch.AssignedTo = &id
	}

	current := policy.TaskValues{
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		AssignedTo:  task.AssignedTo,
	}
	merged := policy.MergeTaskUpdate(actor, current, patch)

	var previous *uuid.UUID
	if merged.AssignedTo != task.AssignedTo {
		if _, err := s.resolveAssignee(ctx, merged.AssignedTo.String()); err != nil {
			return nil, err
		}
		old := task.AssignedTo
		previous = &old
	}

	task.Title = merged.Title
	task.Description = merged.Description
	task.DueDate = merged.DueDate
	task.Priority = merged.Priority
	task.Status = merged.Status
	task.AssignedTo = merged.AssignedTo

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Task not found")
		}
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, apperror.Internal("failed to update task", err)
	}

	updated, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperror.Internal("failed to reload task", err)
	}

	logger.InfoContext(ctx, "Task updated successfully", "task_id", taskID, "actor_id", actor.ID)

	s.publish(ctx, ports.TaskEventUpdated, actor, updated, previous)

	return updated, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actor policy.Actor, taskID uuid.UUID) error {
	if d := policy.AuthorizeTask(actor, policy.ActionDelete, nil); !d.Allowed {
		logger.WarnContext(ctx, "Task deletion denied", "task_id", taskID, "actor_id", actor.ID)
		return d.Err
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Task not found")
		}
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return apperror.Internal("failed to delete task", err)
	}

	logger.InfoContext(ctx, "Task deleted successfully", "task_id", taskID, "actor_id", actor.ID)

	s.publish(ctx, ports.TaskEventDeleted, actor, task, nil)

	return nil
}

func (s *TaskServiceImpl) loadTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Task not found")
		}
		return nil, apperror.Internal("failed to load task", err)
	}
	return task, nil
}

// resolveAssignee parses the id and checks that the user exists.
func (s *TaskServiceImpl) resolveAssignee(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("assignedTo must be a valid user id")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return uuid.Nil, apperror.Validation("Assigned user not found")
		}
		return uuid.Nil, apperror.Internal("failed to load assignee", err)
	}
	return id, nil
}

func (s *TaskServiceImpl) publish(ctx context.Context, eventType string, actor policy.Actor, task *models.Task, previous *uuid.UUID) {
	if s.events == nil {
		return
	}

	event := &ports.TaskEvent{
		Type:               eventType,
		TaskID:             task.ID,
		AssignedTo:         task.AssignedTo,
		PreviousAssignedTo: previous,
		ActorID:            actor.ID,
		OccurredAt:         s.now(),
	}
	if eventType != ports.TaskEventDeleted {
		resp := dto.TaskToTaskResponse(task)
		event.Task = &resp
	}

	if err := s.events.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "type", eventType, "task_id", task.ID, "error", err)
	}
}

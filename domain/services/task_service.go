package services

import (
	"context"

	"github.com/google/uuid"
	"taskhub-api/domain/dto"
	"taskhub-api/domain/models"
	"taskhub-api/domain/policy"
)

type TaskService interface {
	NewTaskForm(ctx context.Context, actor policy.Actor) (*dto.TaskFormResponse, error)
	CreateTask(ctx context.Context, actor policy.Actor, req *dto.CreateTaskRequest) (*models.Task, error)
	// ListTasks returns every task for privileged actors and only assigned tasks otherwise.
	ListTasks(ctx context.Context, actor policy.Actor) ([]*models.Task, error)
	GetTaskStats(ctx context.Context, actor policy.Actor) (*dto.TaskStatsResponse, error)
	GetTask(ctx context.Context, actor policy.Actor, taskID uuid.UUID) (*models.Task, error)
	UpdateTask(ctx context.Context, actor policy.Actor, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, actor policy.Actor, taskID uuid.UUID) error
}

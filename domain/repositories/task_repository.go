package repositories

import (
	"context"

	"github.com/google/uuid"
	"taskhub-api/domain/models"
)

// TaskFilter narrows Find/Count. Nil fields match everything.
type TaskFilter struct {
	AssignedTo *uuid.UUID
	Status     *string
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter TaskFilter) (int64, error)
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks []*models.Task
	users *UserRepository // populate Assignee
}

func NewTaskRepository(users *UserRepository) *TaskRepository {
	return &TaskRepository{users: users}
}

var _ repositories.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	stored := *task
	stored.Assignee = models.User{}
	r.tasks = append(r.tasks, &stored)
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			return r.populate(ctx, t), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *TaskRepository) Find(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if matches(t, filter) {
			tasks = append(tasks, r.populate(ctx, t))
		}
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == task.ID {
			task.UpdatedAt = time.Now()
			stored := *task
			stored.Assignee = models.User{}
			stored.CreatedBy = t.CreatedBy
			stored.CreatedAt = t.CreatedAt
			r.tasks[i] = &stored
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *TaskRepository) Count(ctx context.Context, filter repositories.TaskFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, t := range r.tasks {
		if matches(t, filter) {
			count++
		}
	}
	return count, nil
}

func matches(t *models.Task, filter repositories.TaskFilter) bool {
	if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
		return false
	}
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	return true
}

func (r *TaskRepository) populate(ctx context.Context, t *models.Task) *models.Task {
	copied := *t
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, t.AssignedTo); err == nil {
			copied.Assignee = *u
		}
	}
	return &copied
}

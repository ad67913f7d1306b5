package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("Assignee").Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Find(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.scoped(ctx, filter).
		Preload("Assignee").
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// Update writes the mutable fields. created_by is never part of it.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"due_date":    task.DueDate,
			"priority":    task.Priority,
			"status":      task.Status,
			"assigned_to": task.AssignedTo,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, filter repositories.TaskFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, filter).Model(&models.Task{}).Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) scoped(ctx context.Context, filter repositories.TaskFilter) *gorm.DB {
	query := r.db.WithContext(ctx)
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

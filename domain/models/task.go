package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text;not null"`
	DueDate     time.Time `gorm:"not null"`
	Priority    string    `gorm:"default:'medium';not null"`
	Status      string    `gorm:"default:'todo';not null;index"`
	AssignedTo  uuid.UUID `gorm:"type:uuid;not null;index"`
	Assignee    User      `gorm:"foreignKey:AssignedTo"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"` // set once at creation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) TableName() string {
	return "tasks"
}

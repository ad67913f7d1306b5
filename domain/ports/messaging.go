package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"taskhub-api/domain/dto"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task Event Ports - live feed ของการเปลี่ยนแปลง task
// ═══════════════════════════════════════════════════════════════════════════════

const (
	TaskEventCreated = "task.created"
	TaskEventUpdated = "task.updated"
	TaskEventDeleted = "task.deleted"
)

type TaskEvent struct {
	Type               string            `json:"type"`
	TaskID             uuid.UUID         `json:"taskId"`
	AssignedTo         uuid.UUID         `json:"assignedTo"`
	// PreviousAssignedTo is set when an update moved the task to someone else.
	PreviousAssignedTo *uuid.UUID        `json:"previousAssignedTo,omitempty"`
	ActorID            uuid.UUID         `json:"actorId"`
	Task               *dto.TaskResponse `json:"task,omitempty"`
	OccurredAt         time.Time         `json:"occurredAt"`
}

// TaskEventPublisher - ส่ง event ออกไป (NATS หรือ in-process)
type TaskEventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *TaskEvent) error
}

// TaskEventHandler - Callback function type
type TaskEventHandler func(event *TaskEvent)

// TaskEventSubscriber รับ ctx เพื่อให้ cancel subscription ผ่าน context ได้
type TaskEventSubscriber interface {
	Subscribe(ctx context.Context, handler TaskEventHandler) error
	Unsubscribe() error
}

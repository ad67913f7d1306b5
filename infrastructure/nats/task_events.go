package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

// TaskEventPublisher broadcasts task events on core NATS.
// Every API instance receives them, so websocket clients on any instance see them.
type TaskEventPublisher struct {
	conn *nats.Conn
}

var _ ports.TaskEventPublisher = (*TaskEventPublisher)(nil)

func NewTaskEventPublisher(conn *nats.Conn) *TaskEventPublisher {
	return &TaskEventPublisher{conn: conn}
}

func (p *TaskEventPublisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}
	return p.conn.Publish(TaskEventSubject(event.Type), data)
}

// TaskEventSubscriber NATS Pub/Sub subscriber สำหรับ task events
type TaskEventSubscriber struct {
	conn *nats.Conn
	sub  *nats.Subscription
	mu   sync.Mutex
}

var _ ports.TaskEventSubscriber = (*TaskEventSubscriber)(nil)

func NewTaskEventSubscriber(conn *nats.Conn) *TaskEventSubscriber {
	return &TaskEventSubscriber{conn: conn}
}

// Subscribe เริ่ม listen tasks.events.> จนกว่า ctx ถูก cancel
func (s *TaskEventSubscriber) Subscribe(ctx context.Context, handler ports.TaskEventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		return nil
	}

	sub, err := s.conn.Subscribe(SubjectTaskEvents+".>", func(msg *nats.Msg) {
		var event ports.TaskEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to parse task event", "subject", msg.Subject, "error", err)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("Task event handler panicked", "error", r)
			}
		}()
		handler(&event)
	})
	if err != nil {
		return err
	}
	s.sub = sub

	go func() {
		<-ctx.Done()
		_ = s.Unsubscribe()
	}()

	logger.Info("NATS subscriber started", "subject", SubjectTaskEvents+".>")
	return nil
}

func (s *TaskEventSubscriber) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub == nil {
		return nil
	}
	err := s.sub.Unsubscribe()
	s.sub = nil
	return err
}

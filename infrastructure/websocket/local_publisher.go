package websocket

import (
	"context"

	"taskhub-api/domain/ports"
)

// LocalPublisher ส่ง task event เข้า hub ตรงๆ ใช้ตอนไม่มี NATS
type LocalPublisher struct {
	hub *Hub
}

var _ ports.TaskEventPublisher = (*LocalPublisher)(nil)

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	p.hub.Dispatch(event)
	return nil
}

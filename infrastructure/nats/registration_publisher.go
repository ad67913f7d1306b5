package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

const publishTimeout = 3 * time.Second

// RegistrationPublisher queues registration notices on JetStream.
type RegistrationPublisher struct {
	client *Client
}

var _ ports.RegistrationNotifier = (*RegistrationPublisher)(nil)

func NewRegistrationPublisher(client *Client) *RegistrationPublisher {
	return &RegistrationPublisher{client: client}
}

// NotifyRegistration รอแค่ ack จาก JetStream ไม่รอส่ง email
func (p *RegistrationPublisher) NotifyRegistration(ctx context.Context, notice *ports.RegistrationNotice) error {
	data, err := json.Marshal(NewRegistrationMessage(notice))
	if err != nil {
		return fmt.Errorf("failed to marshal registration notice: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ack, err := p.client.js.Publish(pubCtx, SubjectRegistration, data,
		jetstream.WithMsgID("registration-"+notice.UserID.String()),
	)
	if err != nil {
		return fmt.Errorf("failed to publish registration notice: %w", err)
	}

	logger.InfoContext(ctx, "Registration notice queued",
		"user_id", notice.UserID,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

// MailConsumer drains the registration queue into a mailer.
type MailConsumer struct {
	client  *Client
	mailer  ports.MailerPort
	timeout time.Duration

	consumeCtx jetstream.ConsumeContext
	running    atomic.Bool
	wg         sync.WaitGroup
}

func NewMailConsumer(client *Client, mailer ports.MailerPort) *MailConsumer {
	return &MailConsumer{
		client:  client,
		mailer:  mailer,
		timeout: 30 * time.Second,
	}
}

func (c *MailConsumer) Start(ctx context.Context) error {
	if c.running.Load() {
		return nil
	}

	consumer, err := c.client.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          MailerConsumerName,
		Durable:       MailerConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    3,
		AckWait:       time.Minute,
		FilterSubject: SubjectRegistration,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		c.wg.Add(1)
		defer c.wg.Done()
		c.processMessage(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	c.consumeCtx = consumeCtx
	c.running.Store(true)

	logger.Info("Mail consumer started", "stream", NotificationStreamName, "consumer", MailerConsumerName)
	return nil
}

func (c *MailConsumer) processMessage(msg jetstream.Msg) {
	var message RegistrationMessage
	if err := json.Unmarshal(msg.Data(), &message); err != nil {
		logger.Error("Failed to unmarshal registration notice", "error", err)
		_ = msg.Term()
		return
	}

	notice, err := message.ToNotice()
	if err != nil {
		logger.Error("Invalid registration notice", "user_id", message.UserID, "error", err)
		_ = msg.Term()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.mailer.SendVerificationEmail(ctx, notice); err != nil {
		logger.Warn("Verification email failed, will retry",
			"user_id", notice.UserID,
			"error", err,
		)
		_ = msg.NakWithDelay(10 * time.Second)
		return
	}

	_ = msg.Ack()
	logger.Info("Verification email sent", "user_id", notice.UserID)
}

func (c *MailConsumer) Stop() {
	if !c.running.Swap(false) {
		return
	}
	if c.consumeCtx != nil {
		c.consumeCtx.Stop()
	}
	c.wg.Wait()
	logger.Info("Mail consumer stopped")
}

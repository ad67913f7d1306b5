package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"taskhub-api/pkg/logger"
)

// Client wraps NATS connection with JetStream context
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream // registration notifications
}

// ClientConfig configuration สำหรับ NATS Client
type ClientConfig struct {
	URL  string // nats://localhost:4222
	Name string // connection name
}

// NewClient สร้าง NATS Client พร้อม JetStream
func NewClient(cfg ClientConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{
		conn: nc,
		js:   js,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.setupStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to setup stream: %w", err)
	}

	logger.Info("NATS client initialized", "url", cfg.URL, "stream", NotificationStreamName)
	return client, nil
}

// setupStream สร้างหรืออัปเดต Stream
func (c *Client) setupStream(ctx context.Context) error {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        NotificationStreamName,
		Subjects:    []string{SubjectRegistration},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.WorkQueuePolicy, // ลบ message หลัง Ack
		MaxAge:      24 * time.Hour,            // verification link หมดอายุใน 24 ชม. อยู่แล้ว
		Duplicates:  2 * time.Minute,
		Replicas:    1,
		Description: "Registration notification queue (verification emails)",
	})
	if err != nil {
		return fmt.Errorf("failed to create/update notification stream: %w", err)
	}
	c.stream = stream
	logger.Info("JetStream stream ready", "name", NotificationStreamName)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Getters
// ═══════════════════════════════════════════════════════════════════════════════

func (c *Client) Conn() *nats.Conn {
	return c.conn
}

func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

func (c *Client) Stream() jetstream.Stream {
	return c.stream
}

// GetStatus ดึงสถานะ stream + consumer MAILER
func (c *Client) GetStatus(ctx context.Context) (*StreamStatus, error) {
	info, err := c.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream info: %w", err)
	}

	status := &StreamStatus{
		Name:     info.Config.Name,
		Messages: info.State.Msgs,
	}

	// consumer อาจยังไม่ถูกสร้าง
	if consumer, err := c.stream.Consumer(ctx, MailerConsumerName); err == nil {
		if ci, err := consumer.Info(ctx); err == nil {
			status.NumAckPending = ci.NumAckPending
			status.Redelivered = ci.NumRedelivered
		}
	}

	return status, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Lifecycle
// ═══════════════════════════════════════════════════════════════════════════════

// Close drain แล้วปิด connection
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	return nil
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

package nats

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"taskhub-api/domain/ports"
)

// Stream and Consumer names
const (
	// JetStream work queue สำหรับส่ง email หลังสมัครสมาชิก
	NotificationStreamName = "USER_NOTIFICATIONS"
	MailerConsumerName     = "MAILER"
	SubjectRegistration    = "notifications.registration"

	// Pub/Sub subject prefix สำหรับ task events (tasks.events.created ฯลฯ)
	SubjectTaskEvents = "tasks.events"
)

// ═══════════════════════════════════════════════════════════════════════════════
// RegistrationMessage - API → Mailer consumer (via JetStream)
// ═══════════════════════════════════════════════════════════════════════════════
type RegistrationMessage struct {
	UserID            string `json:"user_id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
	CreatedAt         int64  `json:"created_at"`
}

func NewRegistrationMessage(notice *ports.RegistrationNotice) *RegistrationMessage {
	return &RegistrationMessage{
		UserID:            notice.UserID.String(),
		Username:          notice.Username,
		Email:             notice.Email,
		VerificationToken: notice.VerificationToken,
		CreatedAt:         time.Now().Unix(),
	}
}

// ToNotice แปลงกลับเป็น port struct
func (m *RegistrationMessage) ToNotice() (*ports.RegistrationNotice, error) {
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	return &ports.RegistrationNotice{
		UserID:            userID,
		Username:          m.Username,
		Email:             m.Email,
		VerificationToken: m.VerificationToken,
	}, nil
}

// TaskEventSubject maps "task.created" to "tasks.events.created".
func TaskEventSubject(eventType string) string {
	suffix := eventType
	if i := strings.LastIndex(eventType, "."); i >= 0 {
		suffix = eventType[i+1:]
	}
	return SubjectTaskEvents + "." + suffix
}

// ═══════════════════════════════════════════════════════════════════════════════
// Stream status (สำหรับ health endpoint)
// ═══════════════════════════════════════════════════════════════════════════════

type StreamStatus struct {
	Name          string `json:"name"`
	Messages      uint64 `json:"messages"`
	NumAckPending int    `json:"numAckPending"`
	Redelivered   int    `json:"redelivered"`
}

package ports

import (
	"context"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Registration Notifier Port - แจ้งเตือนหลังสมัครสมาชิก (ส่ง verification email)
// ═══════════════════════════════════════════════════════════════════════════════

// RegistrationNotice - Plain struct (ไม่มี NATS dependency)
type RegistrationNotice struct {
	UserID            uuid.UUID `json:"userId"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	VerificationToken string    `json:"verificationToken"`
}

// RegistrationNotifier hands a notice to whatever delivers it.
// Implementations must not block on delivery.
type RegistrationNotifier interface {
	NotifyRegistration(ctx context.Context, notice *RegistrationNotice) error
}

// MailerPort - Interface สำหรับส่ง email
type MailerPort interface {
	SendVerificationEmail(ctx context.Context, notice *RegistrationNotice) error
}

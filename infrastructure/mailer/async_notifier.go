package mailer

import (
	"context"
	"time"

	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

// AsyncNotifier delivers registration notices from a goroutine.
// It is used when no message queue is configured.
type AsyncNotifier struct {
	mailer  ports.MailerPort
	timeout time.Duration
}

var _ ports.RegistrationNotifier = (*AsyncNotifier)(nil)

func NewAsyncNotifier(mailer ports.MailerPort, timeout time.Duration) *AsyncNotifier {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AsyncNotifier{mailer: mailer, timeout: timeout}
}

// NotifyRegistration returns immediately; delivery errors are only logged.
func (n *AsyncNotifier) NotifyRegistration(ctx context.Context, notice *ports.RegistrationNotice) error {
	// ไม่ผูกกับ request ctx เพราะ request จบก่อนส่งเสร็จ
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)

	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Verification mailer panicked", "error", r)
			}
		}()

		if err := n.mailer.SendVerificationEmail(sendCtx, notice); err != nil {
			logger.WarnContext(sendCtx, "Verification email failed", "user_id", notice.UserID, "error", err)
		}
	}()

	return nil
}

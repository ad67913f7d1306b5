package mailer

import (
	"context"

	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

// LogMailer ใช้ตอน MAIL_ENABLED=false: log link แทนการส่งจริง
type LogMailer struct {
	frontendURL string
	showLink    bool // development เท่านั้น
}

var _ ports.MailerPort = (*LogMailer)(nil)

func NewLogMailer(frontendURL string, showLink bool) *LogMailer {
	return &LogMailer{frontendURL: frontendURL, showLink: showLink}
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, notice *ports.RegistrationNotice) error {
	args := []any{"user_id", notice.UserID, "email", notice.Email}
	if m.showLink {
		args = append(args, "link", VerificationLink(m.frontendURL, notice.VerificationToken))
	}
	logger.InfoContext(ctx, "Mail disabled, verification email not sent", args...)
	return nil
}

package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

const mailerName = "TaskHub Verification Mailer"

// Config สำหรับ SMTP mailer
type Config struct {
	AppName     string
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	LogoURL     string
	FrontendURL string

	ConnectTimeout time.Duration // default 5s
	SendTimeout    time.Duration // default 20s
}

// SMTPMailer sends mail over SMTP with mandatory STARTTLS.
type SMTPMailer struct {
	cfg Config
}

var _ ports.MailerPort = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 20 * time.Second
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, notice *ports.RegistrationNotice) error {
	if notice.Email == "" || notice.Username == "" || notice.VerificationToken == "" {
		return errors.New("missing required parameters for email verification")
	}

	html, err := renderVerificationEmail(verificationData{
		AppName:  m.cfg.AppName,
		Username: notice.Username,
		LogoURL:  m.cfg.LogoURL,
		Link:     VerificationLink(m.cfg.FrontendURL, notice.VerificationToken),
	})
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	msg, err := m.newMessage(notice.Email, verificationSubject, html)
	if err != nil {
		return fmt.Errorf("failed to build verification email: %w", err)
	}

	client, err := m.newClient()
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
	defer cancel()

	if err := client.DialAndSendWithContext(sendCtx, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	logger.InfoContext(ctx, "Verification email delivered", "user_id", notice.UserID)
	return nil
}

// newMessage HTML message ความสำคัญสูง
func (m *SMTPMailer) newMessage(to, subject, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	from := msg.From
	if m.cfg.FromName != "" {
		from = func(address string) error { return msg.FromFormat(m.cfg.FromName, address) }
	}
	if err := from(m.cfg.FromAddress); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetImportance(mail.ImportanceHigh)
	msg.SetGenHeader(mail.HeaderXMailer, mailerName)
	msg.SetBodyString(mail.TypeTextHTML, html)
	return msg, nil
}

func (m *SMTPMailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.cfg.ConnectTimeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

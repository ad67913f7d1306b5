package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub-api/domain/ports"
)

func TestVerificationLink(t *testing.T) {
	assert.Equal(t, "http://app.local/verify-email?token=a.b.c", VerificationLink("http://app.local/", "a.b.c"))
	assert.Equal(t, "http://app.local/verify-email?token=a%2Bb", VerificationLink("http://app.local", "a+b"))
}

func TestRenderVerificationEmailEscapesUsername(t *testing.T) {
	html, err := renderVerificationEmail(verificationData{
		AppName:  "TaskHub",
		Username: "<script>alert(1)</script>",
		LogoURL:  "https://cdn.local/logo.png",
		Link:     "http://app.local/verify-email?token=abc",
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "http://app.local/verify-email?token=abc")
}

func TestSMTPMailerMessageHeaders(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525, FromName: "TaskHub", FromAddress: "noreply@taskhub.local"})

	msg, err := m.newMessage("a@x.com", verificationSubject, "<p>hi</p>")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	head, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, head, "a@x.com")
	assert.Contains(t, head, "noreply@taskhub.local")
	assert.Contains(t, head, "Subject: Confirm Your Registration")
	assert.Contains(t, head, "X-Mailer: "+mailerName)
	assert.Contains(t, head, "X-Priority: 1")
	assert.Contains(t, head, "Message-ID:")
	assert.Contains(t, body, "<p>hi</p>")
}

func TestSMTPMailerRejectsBadRecipient(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525, FromAddress: "noreply@taskhub.local"})
	_, err := m.newMessage("not an address", verificationSubject, "<p>hi</p>")
	assert.Error(t, err)
}

type chanMailer struct {
	sent chan *ports.RegistrationNotice
	err  error
}

func (m *chanMailer) SendVerificationEmail(ctx context.Context, notice *ports.RegistrationNotice) error {
	m.sent <- notice
	return m.err
}

func TestAsyncNotifierDoesNotWait(t *testing.T) {
	mailer := &chanMailer{sent: make(chan *ports.RegistrationNotice, 1), err: errors.New("smtp down")}
	notifier := NewAsyncNotifier(mailer, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	notice := &ports.RegistrationNotice{UserID: uuid.New(), Username: "a", Email: "a@x.com", VerificationToken: "t"}

	require.NoError(t, notifier.NotifyRegistration(ctx, notice))
	cancel()

	select {
	case got := <-mailer.sent:
		assert.Equal(t, notice, got)
	case <-time.After(2 * time.Second):
		t.Fatal("mailer was not called")
	}
}

func TestSMTPMailerRejectsIncompleteNotice(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525})
	err := m.SendVerificationEmail(context.Background(), &ports.RegistrationNotice{Email: "a@x.com"})
	assert.Error(t, err)
}

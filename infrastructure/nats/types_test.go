package nats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub-api/domain/ports"
)

func TestTaskEventSubject(t *testing.T) {
	assert.Equal(t, "tasks.events.created", TaskEventSubject(ports.TaskEventCreated))
	assert.Equal(t, "tasks.events.deleted", TaskEventSubject(ports.TaskEventDeleted))
	assert.Equal(t, "tasks.events.custom", TaskEventSubject("custom"))
}

func TestRegistrationMessageRoundTrip(t *testing.T) {
	notice := &ports.RegistrationNotice{
		UserID:            uuid.New(),
		Username:          "a",
		Email:             "a@x.com",
		VerificationToken: "tok",
	}

	back, err := NewRegistrationMessage(notice).ToNotice()
	require.NoError(t, err)
	assert.Equal(t, notice, back)

	_, err = (&RegistrationMessage{UserID: "nope"}).ToNotice()
	assert.Error(t, err)
}

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskhub-api/infrastructure/memory"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags([]string{"--username", " root ", "--email", "Root@X.com", "--password", "pw"})
	require.NoError(t, err)
	assert.Equal(t, "root", opts.Username)
	assert.Equal(t, "root@x.com", opts.Email)
	assert.Equal(t, "admin", opts.Role)
}

func TestParseFlagsRoles(t *testing.T) {
	opts, err := parseFlags([]string{"--username", "boss", "--email", "b@x.com", "--password", "pw", "--role", "manager"})
	require.NoError(t, err)
	assert.Equal(t, "manager", opts.Role)

	_, err = parseFlags([]string{"--username", "u", "--email", "u@x.com", "--password", "pw", "--role", "user"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--username", "u", "--email", "u@x.com"})
	assert.Error(t, err)
}

func TestSeedUserRejectsDuplicates(t *testing.T) {
	users := memory.NewUserRepository()
	opts := &seedOptions{Username: "root", Email: "root@x.com", Password: "pw", Role: "admin"}

	user, err := seedUser(context.Background(), users, opts)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("pw")))

	_, err = seedUser(context.Background(), users, opts)
	assert.Error(t, err)
}

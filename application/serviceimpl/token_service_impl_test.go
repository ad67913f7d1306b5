package serviceimpl

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub-api/domain/services"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestTokenService(clock *fakeClock) services.TokenService {
	return NewTokenService(TokenKeyConfig{
		Secret:          "test-secret",
		AccessTTL:       24 * time.Hour,
		VerificationTTL: 24 * time.Hour,
	}, WithClock(clock.Now))
}

func TestTokenValidWithinLifetime(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(clock)
	userID := uuid.New()

	issued, err := svc.Issue(services.TokenKindAccess, userID)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(24*time.Hour), issued.ExpiresAt)

	for _, delta := range []time.Duration{0, time.Minute, 12 * time.Hour, 24*time.Hour - time.Second} {
		clock.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(delta)
		claims, err := svc.Verify(services.TokenKindAccess, issued.Token)
		require.NoError(t, err, "delta %s", delta)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, issued.ID, claims.ID)
	}
}

func TestTokenExpiresAfterLifetime(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	svc := newTestTokenService(clock)

	issued, err := svc.Issue(services.TokenKindAccess, uuid.New())
	require.NoError(t, err)

	for _, delta := range []time.Duration{24 * time.Hour, 25 * time.Hour, 30 * 24 * time.Hour} {
		clock.now = start.Add(delta)
		_, err := svc.Verify(services.TokenKindAccess, issued.Token)
		assert.ErrorIs(t, err, services.ErrExpiredToken, "delta %s", delta)
	}
}

func TestTokenIssuedMidSecondLastsFullLifetime(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 900*int(time.Millisecond), time.UTC)
	clock := &fakeClock{now: start}
	svc := newTestTokenService(clock)

	issued, err := svc.Issue(services.TokenKindAccess, uuid.New())
	require.NoError(t, err)
	assert.True(t, start.Add(24*time.Hour).Equal(issued.ExpiresAt), "expiresAt %s", issued.ExpiresAt)

	clock.now = start.Add(24*time.Hour - 500*time.Millisecond)
	_, err = svc.Verify(services.TokenKindAccess, issued.Token)
	require.NoError(t, err)

	clock.now = start.Add(24 * time.Hour)
	_, err = svc.Verify(services.TokenKindAccess, issued.Token)
	assert.ErrorIs(t, err, services.ErrExpiredToken)
}

func TestTokenKindsAreDisjoint(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(clock)
	userID := uuid.New()

	access, err := svc.Issue(services.TokenKindAccess, userID)
	require.NoError(t, err)
	verification, err := svc.Issue(services.TokenKindEmailVerification, userID)
	require.NoError(t, err)

	_, err = svc.Verify(services.TokenKindEmailVerification, access.Token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.Verify(services.TokenKindAccess, verification.Token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	claims, err := svc.Verify(services.TokenKindEmailVerification, verification.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenRejectsTampering(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(clock)

	issued, err := svc.Issue(services.TokenKindAccess, uuid.New())
	require.NoError(t, err)

	other, err := svc.Issue(services.TokenKindAccess, uuid.New())
	require.NoError(t, err)

	// payload of one token with the signature of another
	parts := strings.Split(issued.Token, ".")
	otherParts := strings.Split(other.Token, ".")
	require.Len(t, parts, 3)
	require.Len(t, otherParts, 3)
	tampered := parts[0] + "." + parts[1] + "." + otherParts[2]

	_, err = svc.Verify(services.TokenKindAccess, tampered)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.Verify(services.TokenKindAccess, "")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.Verify(services.TokenKindAccess, "not-a-jwt")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenRejectsOtherSecretAndAlgorithm(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(clock)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Audience:  jwt.ClaimStrings{audienceAccess},
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(services.TokenKindAccess, forged)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(services.TokenKindAccess, hs512)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	noExp := jwt.RegisteredClaims{Subject: uuid.NewString(), Audience: jwt.ClaimStrings{audienceAccess}}
	unbounded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(services.TokenKindAccess, unbounded)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestDeriveKeyDiffersFromSecret(t *testing.T) {
	key := deriveKey("test-secret", "email-verification")
	assert.NotEqual(t, []byte("test-secret"), key)
	assert.Len(t, key, 32)
}

package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenKindAccess            TokenKind = "access"
	TokenKindEmailVerification TokenKind = "email_verification"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type IssuedToken struct {
	Token     string
	ID        string // jti
	ExpiresAt time.Time
}

type TokenClaims struct {
	UserID    uuid.UUID
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed identity tokens. Each kind has its
// own key, audience and lifetime, so a token never verifies as another kind.
type TokenService interface {
	Issue(kind TokenKind, userID uuid.UUID) (*IssuedToken, error)
	// Verify returns ErrExpiredToken once the expiry has passed and
	// ErrInvalidToken for every other failure.
	Verify(kind TokenKind, token string) (*TokenClaims, error)
}

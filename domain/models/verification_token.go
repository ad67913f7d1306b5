package models

import (
	"time"

	"github.com/google/uuid"
)

const TokenPurposeEmailVerification = "email_verification"

// VerificationToken records a single-use credential. Only the SHA-256 of the
// token id is stored.
type VerificationToken struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	TokenHash string     `gorm:"size:128;uniqueIndex;not null"`
	Purpose   string     `gorm:"size:32;index;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	UsedAt    *time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}

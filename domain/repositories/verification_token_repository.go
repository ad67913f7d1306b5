package repositories

import (
	"context"
	"time"

	"taskhub-api/domain/models"
)

type VerificationTokenRepository interface {
	Create(ctx context.Context, token *models.VerificationToken) error
	// Consume marks an unused, unexpired token as used and returns it.
	// It returns ErrNotFound when no such token exists, so a token can be
	// consumed at most once.
	Consume(ctx context.Context, tokenHash, purpose string, now time.Time) (*models.VerificationToken, error)
	// DeleteStale removes tokens that expired or were used before the cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

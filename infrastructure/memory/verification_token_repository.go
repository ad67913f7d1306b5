package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
)

type VerificationTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*models.VerificationToken // by hash
}

func NewVerificationTokenRepository() *VerificationTokenRepository {
	return &VerificationTokenRepository{tokens: make(map[string]*models.VerificationToken)}
}

var _ repositories.VerificationTokenRepository = (*VerificationTokenRepository)(nil)

func (r *VerificationTokenRepository) Create(ctx context.Context, token *models.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[token.TokenHash]; exists {
		return repositories.ErrDuplicate
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	stored := *token
	r.tokens[token.TokenHash] = &stored
	return nil
}

func (r *VerificationTokenRepository) Consume(ctx context.Context, tokenHash, purpose string, now time.Time) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenHash]
	if !ok || t.Purpose != purpose || t.UsedAt != nil || !now.Before(t.ExpiresAt) {
		return nil, repositories.ErrNotFound
	}

	usedAt := now
	t.UsedAt = &usedAt
	consumed := *t
	return &consumed, nil
}

func (r *VerificationTokenRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for hash, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) || (t.UsedAt != nil && t.UsedAt.Before(cutoff)) {
			delete(r.tokens, hash)
			deleted++
		}
	}
	return deleted, nil
}

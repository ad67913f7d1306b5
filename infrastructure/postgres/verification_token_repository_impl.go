package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
)

type VerificationTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) repositories.VerificationTokenRepository {
	return &VerificationTokenRepositoryImpl{db: db}
}

func (r *VerificationTokenRepositoryImpl) Create(ctx context.Context, token *models.VerificationToken) error {
	return translateError(r.db.WithContext(ctx).Create(token).Error)
}

// Consume is a single conditional UPDATE, so two concurrent calls cannot both succeed.
func (r *VerificationTokenRepositoryImpl) Consume(ctx context.Context, tokenHash, purpose string, now time.Time) (*models.VerificationToken, error) {
	var consumed []models.VerificationToken
	result := r.db.WithContext(ctx).
		Model(&consumed).
		Clauses(clause.Returning{}).
		Where("token_hash = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?", tokenHash, purpose, now).
		Update("used_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(consumed) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &consumed[0], nil
}

func (r *VerificationTokenRepositoryImpl) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR (used_at IS NOT NULL AND used_at < ?)", cutoff, cutoff).
		Delete(&models.VerificationToken{})
	return result.RowsAffected, result.Error
}

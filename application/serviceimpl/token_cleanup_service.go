package serviceimpl

import (
	"context"
	"time"

	"taskhub-api/domain/repositories"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/scheduler"
)

const tokenCleanupJobID = "verification_token_cleanup"

// TokenCleanupConfig การตั้งค่าสำหรับลบ verification token ที่หมดอายุ/ใช้แล้ว
type TokenCleanupConfig struct {
	CleanupCron string        // default: "0 3 * * *" = 3 AM daily
	Retention   time.Duration // เก็บ token ที่ใช้แล้วไว้อีกนานเท่าไร (default: 0)
	Timeout     time.Duration // default: 1 minute
}

type TokenCleanupService struct {
	config    TokenCleanupConfig
	tokenRepo repositories.VerificationTokenRepository
	scheduler scheduler.EventScheduler
	now       func() time.Time
}

func NewTokenCleanupService(
	config TokenCleanupConfig,
	tokenRepo repositories.VerificationTokenRepository,
	eventScheduler scheduler.EventScheduler,
) *TokenCleanupService {
	service := &TokenCleanupService{
		config:    config,
		tokenRepo: tokenRepo,
		scheduler: eventScheduler,
		now:       time.Now,
	}

	if service.config.CleanupCron == "" {
		service.config.CleanupCron = "0 3 * * *"
	}
	if service.config.Timeout == 0 {
		service.config.Timeout = time.Minute
	}

	return service
}

// RegisterCleanupJob registers the purge with the scheduler.
func (s *TokenCleanupService) RegisterCleanupJob() error {
	return s.scheduler.AddJob(tokenCleanupJobID, s.config.CleanupCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
		defer cancel()
		s.RunCleanup(ctx)
	})
}

// RunCleanup deletes tokens that expired or were used before now minus retention.
func (s *TokenCleanupService) RunCleanup(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.config.Retention)

	deleted, err := s.tokenRepo.DeleteStale(ctx, cutoff)
	if err != nil {
		logger.ErrorContext(ctx, "Verification token cleanup failed", "error", err)
		return 0
	}

	logger.InfoContext(ctx, "Verification token cleanup completed", "deleted", deleted, "cutoff", cutoff)
	return deleted
}

package serviceimpl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"taskhub-api/domain/dto"
	"taskhub-api/domain/models"
	"taskhub-api/domain/policy"
	"taskhub-api/domain/ports"
	"taskhub-api/domain/repositories"
	"taskhub-api/domain/services"
	"taskhub-api/pkg/apperror"
	"taskhub-api/pkg/logger"
)

const msgInvalidOrExpired = "Invalid or expired token"

type UserServiceImpl struct {
	userRepo     repositories.UserRepository
	tokenRepo    repositories.VerificationTokenRepository
	tokenService services.TokenService
	notifier     ports.RegistrationNotifier
	bcryptCost   int
	now          func() time.Time
}

type UserServiceOption func(*UserServiceImpl)

// WithBcryptCost ลด cost ใน test
func WithBcryptCost(cost int) UserServiceOption {
	return func(s *UserServiceImpl) {
		s.bcryptCost = cost
	}
}

func WithUserClock(now func() time.Time) UserServiceOption {
	return func(s *UserServiceImpl) {
		s.now = now
	}
}

func NewUserService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.VerificationTokenRepository,
	tokenService services.TokenService,
	notifier ports.RegistrationNotifier,
	opts ...UserServiceOption,
) services.UserService {
	s := &UserServiceImpl{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		notifier:     notifier,
		bcryptCost:   bcrypt.DefaultCost,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", apperror.Internal("failed to check existing user", err)
	}
	if existing != nil {
		logger.WarnContext(ctx, "Registration rejected - user exists", "username", username, "email", email)
		return nil, "", apperror.Conflict("User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, "", apperror.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:         uuid.New(),
		Username:   username,
		Email:      email,
		Password:   string(hashedPassword),
		Role:       models.RoleUser,
		IsVerified: false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// สมัครพร้อมกัน ชน unique index
			return nil, "", apperror.Conflict("User already exists")
		}
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, "", apperror.Internal("failed to create user", err)
	}

	access, err := s.tokenService.Issue(services.TokenKindAccess, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to issue access token", "user_id", user.ID, "error", err)
		return nil, "", apperror.Internal("failed to issue token", err)
	}

	s.sendVerification(ctx, user)

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)

	return user, access.Token, nil
}

// sendVerification issues a single-use verification token and hands it to the
// notifier. Failures are logged and never reach the caller.
func (s *UserServiceImpl) sendVerification(ctx context.Context, user *models.User) {
	if s.notifier == nil {
		return
	}

	issued, err := s.tokenService.Issue(services.TokenKindEmailVerification, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to issue verification token", "user_id", user.ID, "error", err)
		return
	}

	record := &models.VerificationToken{
		UserID:    user.ID,
		TokenHash: hashTokenID(issued.ID),
		Purpose:   models.TokenPurposeEmailVerification,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		logger.ErrorContext(ctx, "Failed to store verification token", "user_id", user.ID, "error", err)
		return
	}

	notice := &ports.RegistrationNotice{
		UserID:            user.ID,
		Username:          user.Username,
		Email:             user.Email,
		VerificationToken: issued.Token,
	}
	if err := s.notifier.NotifyRegistration(ctx, notice); err != nil {
		logger.WarnContext(ctx, "Failed to queue verification email", "user_id", user.ID, "error", err)
	}
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Login failed - email not found", "email", email)
			return nil, "", apperror.Unauthorized("Invalid credentials")
		}
		return nil, "", apperror.Internal("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return nil, "", apperror.Unauthorized("Invalid credentials")
	}

	access, err := s.tokenService.Issue(services.TokenKindAccess, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to issue access token", "user_id", user.ID, "error", err)
		return nil, "", apperror.Internal("failed to issue token", err)
	}

	logger.InfoContext(ctx, "User logged in", "user_id", user.ID)

	return user, access.Token, nil
}

// VerifyEmail answers the same InvalidOrExpired error for every failure cause.
func (s *UserServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokenService.Verify(services.TokenKindEmailVerification, token)
	if err != nil {
		logger.WarnContext(ctx, "Email verification rejected", "reason", err)
		return apperror.InvalidOrExpired(msgInvalidOrExpired)
	}

	consumed, err := s.tokenRepo.Consume(ctx, hashTokenID(claims.ID), models.TokenPurposeEmailVerification, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Email verification rejected", "reason", "token unknown, used or expired")
			return apperror.InvalidOrExpired(msgInvalidOrExpired)
		}
		return apperror.Internal("failed to consume verification token", err)
	}
	if consumed.UserID != claims.UserID {
		logger.WarnContext(ctx, "Email verification rejected", "reason", "subject mismatch")
		return apperror.InvalidOrExpired(msgInvalidOrExpired)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.InvalidOrExpired(msgInvalidOrExpired)
		}
		return apperror.Internal("failed to load user", err)
	}

	if user.IsVerified {
		return nil
	}

	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperror.Internal("failed to update user", err)
	}

	logger.InfoContext(ctx, "Email verified", "user_id", user.ID)
	return nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, actor policy.Actor) (*models.User, error) {
	if d := policy.AuthorizeUser(actor, policy.ActionReadProfile); !d.Allowed {
		return nil, d.Err
	}
	return s.GetByID(ctx, actor.ID)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, actor policy.Actor, req *dto.UpdateProfileRequest) (*models.User, error) {
	if d := policy.AuthorizeUser(actor, policy.ActionUpdateProfile); !d.Allowed {
		return nil, d.Err
	}

	user, err := s.GetByID(ctx, actor.ID)
	if err != nil {
		logger.WarnContext(ctx, "User not found for profile update", "user_id", actor.ID)
		return nil, err
	}

	merged := policy.MergeProfileUpdate(
		policy.ProfileValues{Username: user.Username, Email: user.Email},
		policy.ProfileValues{
			Username: strings.TrimSpace(req.Username),
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		},
	)
	user.Username = merged.Username
	user.Email = merged.Email

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("Username or email already in use")
		}
		logger.ErrorContext(ctx, "Failed to update user profile", "user_id", actor.ID, "error", err)
		return nil, apperror.Internal("failed to update profile", err)
	}

	logger.InfoContext(ctx, "User profile updated", "user_id", actor.ID)

	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, actor policy.Actor) ([]*models.User, error) {
	if d := policy.AuthorizeUser(actor, policy.ActionListUsers); !d.Allowed {
		return nil, d.Err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}
	return users, nil
}

// hashTokenID is what the verification store keeps instead of the token id.
func hashTokenID(jti string) string {
	sum := sha256.Sum256([]byte(jti))
	return hex.EncodeToString(sum[:])
}

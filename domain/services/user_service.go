package services

import (
	"context"

	"github.com/google/uuid"
	"taskhub-api/domain/dto"
	"taskhub-api/domain/models"
	"taskhub-api/domain/policy"
)

type UserService interface {
	// Register returns the new user and an access token.
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, error)
	VerifyEmail(ctx context.Context, token string) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, actor policy.Actor) (*models.User, error)
	UpdateProfile(ctx context.Context, actor policy.Actor, req *dto.UpdateProfileRequest) (*models.User, error)
	ListUsers(ctx context.Context, actor policy.Actor) ([]*models.User, error)
}

package utils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"taskhub-api/domain/models"
	"taskhub-api/domain/policy"
)

const userLocalsKey = "user"

// UserContext - ผู้ใช้ที่ยืนยันตัวตนแล้วของ request นี้
type UserContext struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     string
}

func NewUserContext(user *models.User) *UserContext {
	return &UserContext{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func (u *UserContext) Actor() policy.Actor {
	return policy.Actor{ID: u.ID, Role: policy.Role(u.Role)}
}

func ExtractTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

func SetUserContext(c *fiber.Ctx, user *UserContext) {
	c.Locals(userLocalsKey, user)
}

func GetUserFromContext(c *fiber.Ctx) (*UserContext, error) {
	userCtx, ok := c.Locals(userLocalsKey).(*UserContext)
	if !ok || userCtx == nil {
		return nil, errors.New("user not found in context")
	}
	return userCtx, nil
}

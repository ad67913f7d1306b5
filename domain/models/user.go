package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles ที่ระบบรู้จัก
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

type User struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Username   string    `gorm:"uniqueIndex;not null"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Password   string    `gorm:"not null"` // bcrypt hash เท่านั้น
	Role       string    `gorm:"default:'user';not null"`
	IsVerified bool      `gorm:"default:false;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (User) TableName() string {
	return "users"
}

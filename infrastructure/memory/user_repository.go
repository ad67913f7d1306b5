// Package memory keeps every store in process memory. It backs DB_DRIVER=memory
// and the service and handler tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflictLocked(user) {
		return repositories.ErrDuplicate
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := *u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username || strings.EqualFold(u.Email, email) {
			found := *u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, u := range r.users {
		if u.ID == user.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repositories.ErrNotFound
	}
	if r.conflictLocked(user) {
		return repositories.ErrDuplicate
	}

	user.UpdatedAt = time.Now()
	stored := *user
	r.users[idx] = &stored
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// conflictLocked reports whether another user holds the same username or email.
func (r *UserRepository) conflictLocked(user *models.User) bool {
	for _, u := range r.users {
		if u.ID == user.ID && user.ID != uuid.Nil {
			continue
		}
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return true
		}
	}
	return false
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
)

func TestUserRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "a", Email: "a@x.com", Password: "h"}))

	err := repo.Create(ctx, &models.User{Username: "a", Email: "other@x.com", Password: "h"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	err = repo.Create(ctx, &models.User{Username: "b", Email: "A@X.com", Password: "h"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserRepositoryUpdateKeepsUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	a := &models.User{Username: "a", Email: "a@x.com"}
	b := &models.User{Username: "b", Email: "b@x.com"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, models.RoleUser, a.Role)

	b.Username = "a"
	assert.ErrorIs(t, repo.Update(ctx, b), repositories.ErrDuplicate)

	b.Username = "bee"
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "bee", got.Username)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTaskRepositoryFilterAndPopulate(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	tasks := NewTaskRepository(users)

	alice := &models.User{Username: "alice", Email: "alice@x.com"}
	bob := &models.User{Username: "bob", Email: "bob@x.com"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	for _, tc := range []struct {
		assignee uuid.UUID
		status   string
	}{
		{alice.ID, models.TaskStatusTodo},
		{alice.ID, models.TaskStatusCompleted},
		{bob.ID, models.TaskStatusCompleted},
	} {
		require.NoError(t, tasks.Create(ctx, &models.Task{
			Title:      "t",
			AssignedTo: tc.assignee,
			Status:     tc.status,
			DueDate:    time.Now(),
		}))
	}

	found, err := tasks.Find(ctx, repositories.TaskFilter{AssignedTo: &alice.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "alice", found[0].Assignee.Username)

	completed := models.TaskStatusCompleted
	count, err := tasks.Count(ctx, repositories.TaskFilter{Status: &completed})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = tasks.Count(ctx, repositories.TaskFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestTaskRepositoryUpdateKeepsCreator(t *testing.T) {
	ctx := context.Background()
	tasks := NewTaskRepository(nil)

	creator := uuid.New()
	task := &models.Task{Title: "t", CreatedBy: creator, AssignedTo: uuid.New()}
	require.NoError(t, tasks.Create(ctx, task))

	changed := *task
	changed.Title = "t2"
	changed.CreatedBy = uuid.New()
	require.NoError(t, tasks.Update(ctx, &changed))

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Equal(t, creator, got.CreatedBy)

	require.NoError(t, tasks.Delete(ctx, task.ID))
	assert.ErrorIs(t, tasks.Delete(ctx, task.ID), repositories.ErrNotFound)
}

func TestVerificationTokenConsumedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationTokenRepository()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &models.VerificationToken{
		UserID:    uuid.New(),
		TokenHash: "h1",
		Purpose:   models.TokenPurposeEmailVerification,
		ExpiresAt: now.Add(time.Hour),
	}))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Consume(ctx, "h1", models.TokenPurposeEmailVerification, now); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestVerificationTokenExpiredOrWrongPurpose(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationTokenRepository()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &models.VerificationToken{
		TokenHash: "h2",
		Purpose:   models.TokenPurposeEmailVerification,
		ExpiresAt: now,
	}))

	_, err := repo.Consume(ctx, "h2", models.TokenPurposeEmailVerification, now)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.Consume(ctx, "h2", "password_reset", now.Add(-time.Minute))
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	deleted, err := repo.DeleteStale(ctx, now.Add(time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

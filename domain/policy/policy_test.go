package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"taskhub-api/pkg/apperror"
)

func TestAuthorizeTaskTable(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	admin := Actor{ID: uuid.New(), Role: RoleAdmin}
	manager := Actor{ID: uuid.New(), Role: RoleManager}
	user := Actor{ID: self, Role: RoleUser}
	stranger := Actor{ID: uuid.New(), Role: Role("guest")}

	tests := []struct {
		name       string
		actor      Actor
		action     Action
		assignedTo *uuid.UUID
		allowed    bool
	}{
		{"admin create", admin, ActionCreate, nil, true},
		{"manager create", manager, ActionCreate, nil, true},
		{"user create", user, ActionCreate, nil, false},
		{"admin list", admin, ActionReadAll, nil, true},
		{"user list", user, ActionReadAll, nil, true},
		{"user stats", user, ActionReadStats, nil, true},
		{"user read other's task", user, ActionRead, &other, true},
		{"admin update any", admin, ActionUpdate, &other, true},
		{"manager update any", manager, ActionUpdate, &other, true},
		{"user update own", user, ActionUpdate, &self, true},
		{"user update other's", user, ActionUpdate, &other, false},
		{"user update unknown assignee", user, ActionUpdate, nil, false},
		{"admin delete", admin, ActionDelete, &other, true},
		{"manager delete", manager, ActionDelete, &other, true},
		{"user delete own", user, ActionDelete, &self, false},
		{"unknown role list", stranger, ActionReadAll, nil, false},
		{"unknown role read one", stranger, ActionRead, &other, true},
		{"unknown role update", stranger, ActionUpdate, &stranger.ID, false},
		{"unknown action", admin, Action("archive"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := AuthorizeTask(tt.actor, tt.action, tt.assignedTo)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if tt.allowed {
				assert.NoError(t, decision.Err)
			} else {
				assert.True(t, apperror.Is(decision.Err, apperror.KindForbidden))
			}
		})
	}
}

func TestDeleteAlwaysForbiddenForNonPrivileged(t *testing.T) {
	for _, role := range []Role{RoleUser, Role(""), Role("auditor")} {
		actor := Actor{ID: uuid.New(), Role: role}
		for i := 0; i < 5; i++ {
			assignee := uuid.New()
			if i == 0 {
				assignee = actor.ID
			}
			assert.False(t, AuthorizeTask(actor, ActionDelete, &assignee).Allowed, "role %q", role)
		}
	}
}

func TestAuthorizeUser(t *testing.T) {
	tests := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleAdmin, ActionListUsers, true},
		{RoleManager, ActionListUsers, true},
		{RoleUser, ActionListUsers, false},
		{RoleUser, ActionReadProfile, true},
		{RoleAdmin, ActionUpdateProfile, true},
		{RoleManager, ActionUpdateProfile, true},
		{RoleUser, ActionUpdateProfile, true},
		{Role("guest"), ActionReadProfile, true},
		{Role("guest"), ActionUpdateProfile, false},
		{RoleAdmin, ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.allowed, AuthorizeUser(Actor{ID: uuid.New(), Role: tt.role}, tt.action).Allowed)
		})
	}
}

func TestAuthorizeRouteGate(t *testing.T) {
	user := Actor{ID: uuid.New(), Role: RoleUser}

	assert.True(t, Authorize(user, ActionUpdate).Allowed)
	assert.False(t, Authorize(user, ActionDelete).Allowed)
	assert.False(t, Authorize(user, ActionCreate).Allowed)
	assert.False(t, Authorize(user, ActionListUsers).Allowed)
	assert.True(t, Authorize(user, ActionUpdateProfile).Allowed)
}

func TestTaskScope(t *testing.T) {
	user := Actor{ID: uuid.New(), Role: RoleUser}
	scope := TaskScope(user)
	if assert.NotNil(t, scope) {
		assert.Equal(t, user.ID, *scope)
	}

	assert.Nil(t, TaskScope(Actor{ID: uuid.New(), Role: RoleAdmin}))
	assert.Nil(t, TaskScope(Actor{ID: uuid.New(), Role: RoleManager}))

	assert.True(t, CanViewTask(user, user.ID))
	assert.False(t, CanViewTask(user, uuid.New()))
	assert.True(t, CanViewTask(Actor{Role: RoleManager}, uuid.New()))
}

func TestMergeTaskUpdateUserOnlyStatus(t *testing.T) {
	user := Actor{ID: uuid.New(), Role: RoleUser}
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	current := TaskValues{
		Title:       "Write report",
		Description: "Quarterly",
		DueDate:     due,
		Priority:    "medium",
		Status:      "todo",
		AssignedTo:  user.ID,
	}

	newDue := due.Add(48 * time.Hour)
	newAssignee := uuid.New()
	merged := MergeTaskUpdate(user, current, TaskPatch{
		Title:       "Hijacked",
		Description: "changed",
		DueDate:     &newDue,
		Priority:    "high",
		Status:      "completed",
		AssignedTo:  &newAssignee,
	})

	assert.Equal(t, "completed", merged.Status)
	assert.Equal(t, current.Title, merged.Title)
	assert.Equal(t, current.Description, merged.Description)
	assert.Equal(t, current.DueDate, merged.DueDate)
	assert.Equal(t, current.Priority, merged.Priority)
	assert.Equal(t, current.AssignedTo, merged.AssignedTo)
}

func TestMergeTaskUpdateEmptyKeepsCurrent(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: RoleAdmin}
	current := TaskValues{
		Title:      "A",
		Priority:   "low",
		Status:     "in-progress",
		AssignedTo: uuid.New(),
	}

	nilID := uuid.Nil
	merged := MergeTaskUpdate(admin, current, TaskPatch{Title: "B", Priority: " ", AssignedTo: &nilID})

	assert.Equal(t, "B", merged.Title)
	assert.Equal(t, "low", merged.Priority)
	assert.Equal(t, "in-progress", merged.Status)
	assert.Equal(t, current.AssignedTo, merged.AssignedTo)
}

func TestMergeProfileUpdate(t *testing.T) {
	current := ProfileValues{Username: "a", Email: "a@x.com"}

	assert.Equal(t, ProfileValues{Username: "b", Email: "a@x.com"},
		MergeProfileUpdate(current, ProfileValues{Username: "b"}))
	assert.Equal(t, current, MergeProfileUpdate(current, ProfileValues{}))
}

func TestUpdatableTaskFields(t *testing.T) {
	assert.Len(t, UpdatableTaskFields(Actor{Role: RoleManager}), 6)
	assert.Equal(t, []TaskField{FieldStatus}, UpdatableTaskFields(Actor{Role: RoleUser}))
	assert.Empty(t, UpdatableTaskFields(Actor{Role: Role("guest")}))
}

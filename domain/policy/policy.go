// Package policy holds the access decisions for tasks and user accounts.
// Every function here is pure: no I/O, no clock, no globals.
package policy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"taskhub-api/pkg/apperror"
)

// Role is an account's role as stored on the user record.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Privileged reports whether the role may manage every task.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r Role) Known() bool {
	return r.Privileged() || r == RoleUser
}

// Action is an operation an actor asks to perform on a resource.
type Action string

const (
	ActionCreate        Action = "create"
	ActionRead          Action = "read"
	ActionReadAll       Action = "readAll"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionReadStats     Action = "readStats"
	ActionListUsers     Action = "listUsers"
	ActionReadProfile   Action = "readProfile"
	ActionUpdateProfile Action = "updateProfile"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Decision is the outcome of an authorization check. Err is set whenever
// Allowed is false.
type Decision struct {
	Allowed bool
	Err     error
}

func allow() Decision { return Decision{Allowed: true} }

func deny(message string) Decision {
	return Decision{Err: apperror.Forbidden(message)}
}

// AuthorizeTask decides whether actor may perform action on tasks.
// assignedTo is the target task's assignee for per-task actions and nil otherwise.
func AuthorizeTask(actor Actor, action Action, assignedTo *uuid.UUID) Decision {
	switch action {
	case ActionRead:
		// single-task read is open to any authenticated actor
		return allow()

	case ActionReadAll, ActionReadStats:
		if actor.Role.Known() {
			return allow()
		}
		return deny("Access denied")

	case ActionCreate:
		if actor.Role.Privileged() {
			return allow()
		}
		return deny("You are not authorized to create tasks")

	case ActionDelete:
		if actor.Role.Privileged() {
			return allow()
		}
		return deny("You are not authorized to delete tasks")

	case ActionUpdate:
		if actor.Role.Privileged() {
			return allow()
		}
		if actor.Role == RoleUser && assignedTo != nil && *assignedTo == actor.ID {
			return allow()
		}
		return deny("You are not authorized to update this task")
	}

	return deny("Access denied")
}

// AuthorizeUser decides account-level actions. Profile actions always target
// the actor's own account.
func AuthorizeUser(actor Actor, action Action) Decision {
	switch action {
	case ActionReadProfile:
		return allow()

	case ActionUpdateProfile:
		if actor.Role.Known() {
			return allow()
		}
		return deny("You are not authorized to update this profile")

	case ActionListUsers:
		if actor.Role.Privileged() {
			return allow()
		}
		return deny("You are not authorized to list users")
	}

	return deny("Access denied")
}

// Authorize dispatches to AuthorizeTask or AuthorizeUser by action.
// Route-level gates use it before any resource is loaded.
func Authorize(actor Actor, action Action) Decision {
	switch action {
	case ActionListUsers, ActionReadProfile, ActionUpdateProfile:
		return AuthorizeUser(actor, action)
	case ActionUpdate:
		// ownership is checked once the task is loaded
		if actor.Role.Known() {
			return allow()
		}
		return deny("You are not authorized to update this task")
	default:
		return AuthorizeTask(actor, action, nil)
	}
}

// TaskScope returns the assignee filter applied to list and stats queries.
// Nil means the actor sees every task.
func TaskScope(actor Actor) *uuid.UUID {
	if actor.Role.Privileged() {
		return nil
	}
	id := actor.ID
	return &id
}

// CanViewTask reports whether a task belongs to the actor's listing scope.
func CanViewTask(actor Actor, assignedTo uuid.UUID) bool {
	scope := TaskScope(actor)
	return scope == nil || *scope == assignedTo
}

// TaskField names one task attribute an update may change.
type TaskField string

const (
	FieldTitle       TaskField = "Title"
	FieldDescription TaskField = "Description"
	FieldDueDate     TaskField = "DueDate"
	FieldPriority    TaskField = "Priority"
	FieldStatus      TaskField = "Status"
	FieldAssignedTo  TaskField = "AssignedTo"
)

var allTaskFields = []TaskField{
	FieldTitle, FieldDescription, FieldDueDate, FieldPriority, FieldStatus, FieldAssignedTo,
}

// UpdatableTaskFields lists the fields the actor's update may change.
// The names match the update payload's struct fields.
func UpdatableTaskFields(actor Actor) []TaskField {
	if actor.Role.Privileged() {
		return append([]TaskField(nil), allTaskFields...)
	}
	if actor.Role == RoleUser {
		return []TaskField{FieldStatus}
	}
	return nil
}

// TaskValues is the mutable part of a task.
type TaskValues struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	Status      string
	AssignedTo  uuid.UUID
}

// TaskPatch is a partial update. Zero values mean "keep current".
type TaskPatch struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
	AssignedTo  *uuid.UUID
}

// MergeTaskUpdate applies the fields of patch the actor may change onto current.
// Fields outside the actor's set are ignored, and empty values keep the stored value.
func MergeTaskUpdate(actor Actor, current TaskValues, patch TaskPatch) TaskValues {
	merged := current
	for _, field := range UpdatableTaskFields(actor) {
		switch field {
		case FieldTitle:
			merged.Title = keep(current.Title, patch.Title)
		case FieldDescription:
			merged.Description = keep(current.Description, patch.Description)
		case FieldDueDate:
			if patch.DueDate != nil && !patch.DueDate.IsZero() {
				merged.DueDate = *patch.DueDate
			}
		case FieldPriority:
			merged.Priority = keep(current.Priority, patch.Priority)
		case FieldStatus:
			merged.Status = keep(current.Status, patch.Status)
		case FieldAssignedTo:
			if patch.AssignedTo != nil && *patch.AssignedTo != uuid.Nil {
				merged.AssignedTo = *patch.AssignedTo
			}
		}
	}
	return merged
}

// ProfileValues is the self-service part of an account. Role and password
// are never part of it.
type ProfileValues struct {
	Username string
	Email    string
}

// MergeProfileUpdate applies the non-empty patch values over current.
func MergeProfileUpdate(current, patch ProfileValues) ProfileValues {
	return ProfileValues{
		Username: keep(current.Username, patch.Username),
		Email:    keep(current.Email, patch.Email),
	}
}

func keep(current, next string) string {
	if strings.TrimSpace(next) == "" {
		return current
	}
	return next
}

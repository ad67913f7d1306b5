package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	DueDate     *time.Time `json:"dueDate" validate:"required"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in-progress completed"`
	AssignedTo  string     `json:"assignedTo" validate:"required,uuid"`
}

func (r *CreateTaskRequest) UnmarshalJSON(data []byte) error {
	type plain CreateTaskRequest
	aux := struct {
		*plain
		DueDate dueDate `json:"dueDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.DueDate = aux.DueDate.t
	return nil
}

// UpdateTaskRequest field names are the names the access policy hands out,
// so only the fields an actor may change get decoded and validated.
type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"omitempty,max=200"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in-progress completed"`
	AssignedTo  string     `json:"assignedTo" validate:"omitempty,uuid"`

	raw map[string]json.RawMessage
}

var updateTaskKeys = map[string]string{
	"Title":       "title",
	"Description": "description",
	"DueDate":     "dueDate",
	"Priority":    "priority",
	"Status":      "status",
	"AssignedTo":  "assignedTo",
}

// UnmarshalJSON เก็บ body ไว้ก่อน ยังไม่ decode ค่าใด ๆ จนกว่าจะเรียก Bind
func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.raw = raw
	return nil
}

// Bind decodes the named fields from the request body. Keys outside fields
// are never decoded, so a bad value there cannot fail the request.
// A request built in code (no body) is left as is.
func (r *UpdateTaskRequest) Bind(fields ...string) error {
	if r.raw == nil {
		return nil
	}
	for _, field := range fields {
		key, ok := updateTaskKeys[field]
		if !ok {
			continue
		}
		value, ok := r.raw[key]
		if !ok {
			continue
		}
		var err error
		switch field {
		case "Title":
			err = json.Unmarshal(value, &r.Title)
		case "Description":
			err = json.Unmarshal(value, &r.Description)
		case "DueDate":
			var d dueDate
			if err = json.Unmarshal(value, &d); err == nil {
				r.DueDate = d.t
			}
		case "Priority":
			err = json.Unmarshal(value, &r.Priority)
		case "Status":
			err = json.Unmarshal(value, &r.Status)
		case "AssignedTo":
			err = json.Unmarshal(value, &r.AssignedTo)
		}
		if err != nil {
			return fmt.Errorf("%s: invalid value", key)
		}
	}
	return nil
}

// dueDate รับได้ทั้ง "2006-01-02" และ RFC3339
type dueDate struct {
	t *time.Time
}

func (d *dueDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.t = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDueDate(s)
	if err != nil {
		return err
	}
	d.t = &parsed
	return nil
}

// ParseDueDate accepts a calendar date (taken as UTC midnight) or an RFC3339 timestamp.
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dueDate %q is neither YYYY-MM-DD nor RFC3339", s)
	}
	return t, nil
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	AssignedTo  *UserRef  `json:"assignedTo"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskMutationResponse struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

type TaskStatsResponse struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
}

// TaskFormResponse ค่าเริ่มต้นของฟอร์มสร้าง task
type TaskFormResponse struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	AssignedTo  *UserRef  `json:"assignedTo"`
}

package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskRequestAcceptsDateOnly(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","dueDate":"2026-12-31","assignedTo":"x"}`), &req))
	require.NotNil(t, req.DueDate)
	assert.True(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC).Equal(*req.DueDate))
	assert.Equal(t, "t", req.Title)
	assert.Equal(t, "x", req.AssignedTo)

	req = CreateTaskRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-12-31T09:30:00+07:00"}`), &req))
	require.NotNil(t, req.DueDate)
	assert.True(t, time.Date(2026, 12, 31, 2, 30, 0, 0, time.UTC).Equal(*req.DueDate))

	req = CreateTaskRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null}`), &req))
	assert.Nil(t, req.DueDate)

	assert.Error(t, json.Unmarshal([]byte(`{"dueDate":"12/31/2026"}`), &CreateTaskRequest{}))
}

func TestUpdateTaskRequestBindsOnlyNamedFields(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed","dueDate":"garbage","priority":7}`), &req))
	assert.Empty(t, req.Status)

	require.NoError(t, req.Bind("Status"))
	assert.Equal(t, "completed", req.Status)
	assert.Nil(t, req.DueDate)
	assert.Empty(t, req.Priority)

	assert.Error(t, req.Bind("DueDate"))
	assert.Error(t, req.Bind("Priority"))
}

func TestUpdateTaskRequestWithoutBodyKeepsFields(t *testing.T) {
	req := UpdateTaskRequest{Status: "todo"}
	require.NoError(t, req.Bind("Status", "Title"))
	assert.Equal(t, "todo", req.Status)
}

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub-api/domain/dto"
	"taskhub-api/pkg/apperror"
)

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Bearer", ""},
		{"Token abc", ""},
		{"", ""},
		{"Bearer a b", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTokenFromHeader(tt.header))
		})
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&dto.RegisterRequest{Username: "a", Email: "not-an-email", Password: "p"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.False(t, HasMissingField(err))
}

func TestHasMissingField(t *testing.T) {
	err := ValidateStruct(&dto.CreateTaskRequest{Title: "x"})
	require.Error(t, err)
	assert.True(t, HasMissingField(err))
}

func TestValidatePartialChecksOnlyNamedFields(t *testing.T) {
	req := &dto.UpdateTaskRequest{Status: "done", Priority: "urgent"}

	err := ValidatePartial(req, "Priority")
	require.Error(t, err)
	assert.Equal(t, "priority", GetValidationErrors(err)[0].Field)

	req.Priority = "high"
	assert.NoError(t, ValidatePartial(req, "Priority"))
	assert.Error(t, ValidatePartial(req, "Status"))
	assert.NoError(t, ValidatePartial(req))
}

func TestHandleErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperror.Validation("bad"), fiber.StatusBadRequest},
		{apperror.Conflict("taken"), fiber.StatusBadRequest},
		{apperror.Unauthorized("no"), fiber.StatusUnauthorized},
		{apperror.Forbidden("no"), fiber.StatusForbidden},
		{apperror.NotFound("gone"), fiber.StatusNotFound},
		{apperror.InvalidOrExpired("expired"), fiber.StatusBadRequest},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return HandleError(c, tt.err) })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.err.Error())
	}
}

func TestInternalErrorCarriesDiagnostic(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return HandleError(c, errors.New("db down")) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Server error", body.Message)
	assert.Equal(t, "db down", body.Error)
}

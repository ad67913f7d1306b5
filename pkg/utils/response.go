package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"taskhub-api/domain/dto"
	"taskhub-api/pkg/apperror"
	"taskhub-api/pkg/logger"
)

// ========== Error Code Constants ==========

const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeInvalidOrExpired = "INVALID_OR_EXPIRED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Message: message})
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, code, message string, details any) error {
	return c.Status(statusCode).JSON(dto.ErrorResponse{
		Message: message,
		Code:    code,
		Details: details,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, message string, details any) error {
	if message == "" {
		message = "Validation failed"
	}
	return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, message, details)
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return ErrorResponse(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, message, nil)
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(c, fiber.StatusNotFound, ErrCodeNotFound, message, nil)
}

// InternalServerErrorResponse ส่ง message กลางๆ พร้อม diagnostic ใน field error
func InternalServerErrorResponse(c *fiber.Ctx, err error) error {
	body := dto.ErrorResponse{
		Message: "Server error",
		Code:    ErrCodeInternalError,
	}
	if err != nil {
		body.Error = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

// StatusForKind maps an application error kind to its HTTP status.
// Conflicts answer 400 like the other client input errors.
func StatusForKind(kind apperror.Kind) (int, string) {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest, ErrCodeValidation
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized, ErrCodeUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden, ErrCodeForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound, ErrCodeNotFound
	case apperror.KindConflict:
		return fiber.StatusBadRequest, ErrCodeConflict
	case apperror.KindInvalidOrExpired:
		return fiber.StatusBadRequest, ErrCodeInvalidOrExpired
	default:
		return fiber.StatusInternalServerError, ErrCodeInternalError
	}
}

// HandleError เขียน response จาก error ที่ service คืนมา
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		logger.ErrorContext(c.UserContext(), "Request failed", "path", c.Path(), "error", err)
		return InternalServerErrorResponse(c, err)
	}

	status, code := StatusForKind(appErr.Kind)
	return ErrorResponse(c, status, code, appErr.Message, appErr.Details)
}

package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

// ErrorHandler renders errors that escape handlers in the same JSON envelope
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) {
			logger.ErrorContext(c.UserContext(), "Unhandled error", "path", c.Path(), "error", err)
			return utils.InternalServerErrorResponse(c, err)
		}

		errCode := utils.ErrCodeInternalError
		switch e.Code {
		case fiber.StatusBadRequest:
			errCode = utils.ErrCodeBadRequest
		case fiber.StatusUnauthorized:
			errCode = utils.ErrCodeUnauthorized
		case fiber.StatusForbidden:
			errCode = utils.ErrCodeForbidden
		case fiber.StatusNotFound:
			errCode = utils.ErrCodeNotFound
		case fiber.StatusConflict:
			errCode = utils.ErrCodeConflict
		case fiber.StatusTooManyRequests:
			errCode = utils.ErrCodeRateLimited
		}

		if e.Code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Request error", "path", c.Path(), "error", err)
		}

		return utils.ErrorResponse(c, e.Code, errCode, e.Message, nil)
	}
}

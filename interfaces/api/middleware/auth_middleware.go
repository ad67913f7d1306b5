package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskhub-api/domain/policy"
	"taskhub-api/domain/services"
	"taskhub-api/pkg/apperror"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

// Protected validates the bearer access token, loads its user and sets the user context
func Protected(tokenService services.TokenService, userService services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		return authenticate(c, tokenService, userService, token)
	}
}

// ProtectedQuery อ่าน token จาก ?token= สำหรับ websocket (browser ส่ง header ไม่ได้)
func ProtectedQuery(tokenService services.TokenService, userService services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			token = utils.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing token")
		}

		return authenticate(c, tokenService, userService, token)
	}
}

func authenticate(c *fiber.Ctx, tokenService services.TokenService, userService services.UserService, token string) error {
	ctx := c.UserContext()

	claims, err := tokenService.Verify(services.TokenKindAccess, token)
	if err != nil {
		logger.WarnContext(ctx, "Token validation failed", "error", err)
		if errors.Is(err, services.ErrExpiredToken) {
			return utils.UnauthorizedResponse(c, "Token has expired")
		}
		return utils.UnauthorizedResponse(c, "Invalid token")
	}

	user, err := userService.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return utils.UnauthorizedResponse(c, "User no longer exists")
		}
		return utils.HandleError(c, err)
	}

	utils.SetUserContext(c, utils.NewUserContext(user))
	c.SetUserContext(logger.ContextWithActorID(ctx, user.ID.String()))

	return c.Next()
}

// Authorize gates a route on the actor's role before any resource is loaded
func Authorize(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		if d := policy.Authorize(user.Actor(), action); !d.Allowed {
			logger.WarnContext(c.UserContext(), "Access denied",
				"action", action,
				"role", user.Role,
				"path", c.Path(),
			)
			return utils.HandleError(c, d.Err)
		}

		return c.Next()
	}
}

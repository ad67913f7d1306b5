package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskhub-api/domain/dto"
	"taskhub-api/domain/services"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid registration data", utils.GetValidationErrors(err))
	}

	user, token, err := h.userService.Register(ctx, &req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.AuthResponse{
		Message: "User registered successfully. Please check your email to verify your account.",
		User:    dto.UserToSummary(user),
		Token:   token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid login data", utils.GetValidationErrors(err))
	}

	user, token, err := h.userService.Login(ctx, &req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.AuthResponse{
		Message: "Login successful",
		User:    dto.UserToSummary(user),
		Token:   token,
	})
}

// Logout ไม่มี state ฝั่ง server ให้ลบ client ทิ้ง token เอง
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.MessageResponse(c, "Logout successful")
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query")
	}

	if err := h.userService.VerifyEmail(c.UserContext(), req.Token); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.MessageResponse(c, "Email verified successfully")
}

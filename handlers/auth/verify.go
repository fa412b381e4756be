package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/services"
	"github.com/garissa/event-planner/utils/response"
)

// VerifyRequest represents an email verification request
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// VerifyResponse represents a successful verification response
type VerifyResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"`
	User        UserResponse `json:"user"`
}

// Verify consumes a verification code, activates the account, and signs the
// user in.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Email and code are required")
	}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return response.NotFound(c, "No account found for this email")
	}
	if user.IsActive {
		return response.Conflict(c, "Account is already verified")
	}

	if err := h.otpService.Verify(req.Email, req.Code, model.OTPPurposeRegistration); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPExpired):
			return response.BadRequest(c, "Verification code has expired")
		case errors.Is(err, services.ErrOTPInvalid):
			return response.BadRequest(c, "Invalid verification code")
		default:
			return response.InternalServerError(c, "Failed to verify code")
		}
	}

	user.IsActive = true
	if err := h.db.Model(&user).Update("is_active", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to activate account")
	}

	accessToken, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	return response.SuccessWithMessage(c, "Account verified successfully", VerifyResponse{
		AccessToken: accessToken,
		ExpiresIn:   tokenExpirySeconds,
		User:        toUserResponse(&user),
	})
}

// ResendOTPRequest represents a request for a fresh verification code
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendOTP issues a new verification code for an unverified account.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return response.NotFound(c, "No account found for this email")
	}
	if user.IsActive {
		return response.Conflict(c, "Account is already verified")
	}

	if err := h.issueAndSendOTP(&user); err != nil {
		return response.InternalServerError(c, "Failed to send verification code")
	}

	return response.SuccessWithMessage(c, "Verification code sent", nil)
}

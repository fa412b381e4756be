package auth

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/garissa/event-planner/model"
	authutil "github.com/garissa/event-planner/utils/auth"
	"github.com/garissa/event-planner/utils/response"
	"github.com/garissa/event-planner/utils/validation"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// Register creates an inactive account and emails a verification code.
// Registering again with an email that never completed verification
// refreshes that account and issues a new code instead of failing.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return response.BadRequest(c, "Name, email, and password are required")
	}
	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}
	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	var user model.User
	err = h.db.Where("email = ?", req.Email).First(&user).Error
	switch {
	case err == nil:
		if user.IsActive {
			return response.Conflict(c, "User with this email already exists")
		}
		// Unverified leftover from an earlier attempt: take the new details.
		user.Name = req.Name
		user.Phone = req.Phone
		user.PasswordHash = hashedPassword
		if err := h.db.Save(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to create user")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Role:         model.RoleUser,
			Phone:        req.Phone,
			IsActive:     false,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to create user")
		}
	default:
		return response.InternalServerError(c, "Failed to create user")
	}

	if err := h.issueAndSendOTP(&user); err != nil {
		return response.InternalServerError(c, "Failed to send verification code")
	}

	return response.Created(c, RegisterResponse{User: toUserResponse(&user)})
}

// issueAndSendOTP creates a fresh verification code and mails it. Delivery
// problems are logged but don't fail the request; the code can be re-sent.
func (h *AuthHandler) issueAndSendOTP(user *model.User) error {
	otp, err := h.otpService.Issue(user.Email, model.OTPPurposeRegistration)
	if err != nil {
		return err
	}

	if err := h.emailService.SendOTPEmail(user.Email, user.Name, otp.Code); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}
	return nil
}

package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/utils/middleware"
	"github.com/garissa/event-planner/utils/pagination"
	"github.com/garissa/event-planner/utils/response"
)

// ListUsers returns all accounts, newest first, optionally filtered by role.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	query := h.db.Model(&model.User{})

	if role := c.Query("role"); role != "" {
		if !model.ValidRole(role) {
			return response.BadRequest(c, "Invalid role filter")
		}
		query = query.Where("role = ?", role)
	}
	query = query.Order("created_at DESC, id DESC")

	params := pagination.Resolve(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	var users []model.User
	if err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Paginated(c, users, pagination.BuildMeta(params, total))
}

// SetUserBan suspends or restores an account via ?action=ban|unban.
// Banning flips is_active off, which also blocks the account at the auth
// middleware on its next request.
func (h *AdminHandler) SetUserBan(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	switch c.Query("action", "ban") {
	case "ban":
		user.IsActive = false
	case "unban":
		user.IsActive = true
	default:
		return response.BadRequest(c, "Invalid action. Use 'ban' or 'unban'")
	}

	if err := h.db.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.SuccessWithMessage(c, "User status updated", user)
}

// DeleteUser removes an account and its bookings. Admin accounts cannot be
// deleted, and admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	if user.IsAdmin() {
		return response.BadRequest(c, "Cannot delete administrator accounts")
	}
	if currentID, ok := middleware.GetUserID(c); ok && currentID == user.ID {
		return response.BadRequest(c, "Cannot delete your own account")
	}

	err = h.db.Select("Bookings", "EventsCreated", "UniversityProfile").Delete(&user).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}

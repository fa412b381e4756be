package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/utils/response"
)

// StatsResponse summarizes platform activity for the admin dashboard
type StatsResponse struct {
	Users            int64 `json:"users"`
	Universities     int64 `json:"universities"`
	Events           int64 `json:"events"`
	PublishedEvents  int64 `json:"publishedEvents"`
	Bookings         int64 `json:"bookings"`
	ApprovedBookings int64 `json:"approvedBookings"`
}

// Stats returns platform-wide entity counts.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var stats StatsResponse

	if err := h.db.Model(&model.User{}).Count(&stats.Users).Error; err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}
	if err := h.db.Model(&model.UniversityProfile{}).Count(&stats.Universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}
	if err := h.db.Model(&model.Event{}).Count(&stats.Events).Error; err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}
	if err := h.db.Model(&model.Event{}).
		Where("status = ?", model.EventStatusPublished).
		Count(&stats.PublishedEvents).Error; err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}
	if err := h.db.Model(&model.Booking{}).Count(&stats.Bookings).Error; err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}
	if err := h.db.Model(&model.Booking{}).
		Where("status = ?", model.BookingStatusApproved).
		Count(&stats.ApprovedBookings).Error; err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}

	return response.Success(c, stats)
}

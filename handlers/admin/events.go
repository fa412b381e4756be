package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/utils/pagination"
	"github.com/garissa/event-planner/utils/response"
)

// ListEvents returns all events regardless of status or organizer, newest
// first, optionally filtered by status.
func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	query := h.db.Model(&model.Event{})

	if status := c.Query("status"); status != "" {
		if !model.ValidEventStatus(status) {
			return response.BadRequest(c, "Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}
	query = query.Order("created_at DESC, id DESC")

	params := pagination.Resolve(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	var events []model.Event
	err := query.Preload("Organizer").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&events).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	return response.Paginated(c, events, pagination.BuildMeta(params, total))
}

// UpdateEventStatusRequest carries a status change for moderation
type UpdateEventStatusRequest struct {
	Status string `json:"status"`
}

// UpdateEventStatus sets any event's status, bypassing ownership.
func (h *AdminHandler) UpdateEventStatus(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req UpdateEventStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !model.ValidEventStatus(req.Status) {
		return response.BadRequest(c, "Invalid event status")
	}

	var event model.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		return response.NotFound(c, "Event not found")
	}

	event.Status = req.Status
	if err := h.db.Model(&event).Update("status", req.Status).Error; err != nil {
		return response.InternalServerError(c, "Failed to update event status")
	}

	return response.SuccessWithMessage(c, "Event status updated", event)
}

// DeleteEvent removes any event and, by cascade, its bookings.
func (h *AdminHandler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	var event model.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		return response.NotFound(c, "Event not found")
	}

	if err := h.db.Select("Bookings").Delete(&event).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete event")
	}

	return response.SuccessWithMessage(c, "Event deleted successfully", nil)
}

package event

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/utils/middleware"
	"github.com/garissa/event-planner/utils/response"
)

// EventWriteRequest carries the mutable event fields. Create requires all
// of them; Update treats absent fields as unchanged.
type EventWriteRequest struct {
	Title        string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description  string   `json:"description" validate:"omitempty,min=10"`
	Location     string   `json:"location" validate:"omitempty,min=3,max=200"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Capacity     *int     `json:"capacity" validate:"omitempty,min=1"`
	Price        *float64 `json:"price"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
	Status       string   `json:"status"`
	UniversityID *uint    `json:"university_id"`
}

// loadOwnedEvent fetches the event and enforces the ownership rule:
// university accounts may only touch events they organize, admins touch any.
func (h *EventHandler) loadOwnedEvent(c *fiber.Ctx) (*model.Event, error) {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return nil, response.BadRequest(c, "Invalid event ID")
	}

	var event model.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "Event not found")
		}
		return nil, response.InternalServerError(c, "Failed to load event")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, response.Unauthorized(c, "Not authenticated")
	}
	if user.Role == model.RoleUniversity && event.OrganizerID != user.ID {
		return nil, response.Forbidden(c, "You can only manage your own events")
	}

	return &event, nil
}

// Create adds a new event organized by the current university or admin user.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req EventWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title == "" || req.Description == "" || req.Location == "" ||
		req.Date == "" || req.Time == "" || req.Capacity == nil || req.Price == nil {
		return response.BadRequest(c, "Title, description, location, date, time, capacity, and price are required")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}
	if *req.Capacity < 1 {
		return response.BadRequest(c, "Capacity must be a positive integer")
	}
	if !validPrice(*req.Price) {
		return response.BadRequest(c, "Price must be non-negative with at most two decimal places")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	timeOfDay, err := parseTimeOfDay(req.Time)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	status := req.Status
	if status == "" {
		status = model.EventStatusDraft
	}
	if !model.ValidEventStatus(status) {
		return response.BadRequest(c, "Invalid event status")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	event := model.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Date:         date,
		Time:         timeOfDay,
		Capacity:     *req.Capacity,
		Price:        *req.Price,
		ImageURL:     req.ImageURL,
		Status:       status,
		OrganizerID:  user.ID,
		UniversityID: req.UniversityID,
	}
	if err := h.db.Create(&event).Error; err != nil {
		return response.InternalServerError(c, "Failed to create event")
	}

	return response.Created(c, event)
}

// Update applies a partial update to an event the caller may manage.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	event, err := h.loadOwnedEvent(c)
	if event == nil {
		return err
	}

	var req EventWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		event.Date = date
	}
	if req.Time != "" {
		timeOfDay, err := parseTimeOfDay(req.Time)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		event.Time = timeOfDay
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return response.BadRequest(c, "Capacity must be a positive integer")
		}
		event.Capacity = *req.Capacity
	}
	if req.Price != nil {
		if !validPrice(*req.Price) {
			return response.BadRequest(c, "Price must be non-negative with at most two decimal places")
		}
		event.Price = *req.Price
	}
	if req.ImageURL != "" {
		event.ImageURL = req.ImageURL
	}
	if req.Status != "" {
		if !model.ValidEventStatus(req.Status) {
			return response.BadRequest(c, "Invalid event status")
		}
		event.Status = req.Status
	}
	if req.UniversityID != nil {
		event.UniversityID = req.UniversityID
	}

	if err := h.db.Save(event).Error; err != nil {
		return response.InternalServerError(c, "Failed to update event")
	}

	return response.SuccessWithMessage(c, "Event updated successfully", event)
}

// UpdateStatusRequest carries a bare status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus changes an event's lifecycle status. Any known status is
// reachable from any other; a cancelled event can be re-published.
func (h *EventHandler) UpdateStatus(c *fiber.Ctx) error {
	event, err := h.loadOwnedEvent(c)
	if event == nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !model.ValidEventStatus(req.Status) {
		return response.BadRequest(c, "Invalid event status")
	}

	event.Status = req.Status
	if err := h.db.Model(event).Update("status", req.Status).Error; err != nil {
		return response.InternalServerError(c, "Failed to update event status")
	}

	return response.SuccessWithMessage(c, "Event status updated", event)
}

// Delete removes an event and, by cascade, its bookings.
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	event, err := h.loadOwnedEvent(c)
	if event == nil {
		return err
	}

	if err := h.db.Select("Bookings").Delete(event).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete event")
	}

	return response.SuccessWithMessage(c, "Event deleted successfully", nil)
}

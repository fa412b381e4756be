package event

import (
	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/utils/pagination"
	"github.com/garissa/event-planner/utils/response"
)

// List returns the event catalog, filterable by status, organizer,
// affiliated university, and date range, ordered by event date or creation
// time. Accessible without a token.
func (h *EventHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&model.Event{})

	if status := c.Query("status"); status != "" {
		if !model.ValidEventStatus(status) {
			return response.BadRequest(c, "Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}
	if organizerID := c.QueryInt("organizer_id"); organizerID > 0 {
		query = query.Where("organizer_id = ?", organizerID)
	}
	if universityID := c.QueryInt("university_id"); universityID > 0 {
		query = query.Where("university_id = ?", universityID)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		parsed, err := parseDate(startDate)
		if err != nil {
			return response.BadRequest(c, "Invalid start_date")
		}
		query = query.Where("date >= ?", parsed)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		parsed, err := parseDate(endDate)
		if err != nil {
			return response.BadRequest(c, "Invalid end_date")
		}
		query = query.Where("date <= ?", parsed)
	}

	orderColumn := "date"
	if c.Query("order_by") == "created_at" {
		orderColumn = "created_at"
	}
	direction := "ASC"
	if c.Query("direction") == "desc" {
		direction = "DESC"
	}
	// Tie-break on id so pages stay stable when many rows share a date.
	query = query.Order(orderColumn + " " + direction).Order("id " + direction)

	params := pagination.Resolve(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	var events []model.Event
	if err := query.Offset(params.Offset()).Limit(params.PageSize).Find(&events).Error; err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	return response.Paginated(c, events, pagination.BuildMeta(params, total))
}

// Get returns a single event with its affiliation and remaining seats.
func (h *EventHandler) Get(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	var event model.Event
	if err := h.db.Preload("University").First(&event, eventID).Error; err != nil {
		return response.NotFound(c, "Event not found")
	}

	available, err := h.bookingService.SeatsAvailable(nil, &event, 0)
	if err != nil {
		return response.InternalServerError(c, "Failed to load event")
	}

	return response.Success(c, fiber.Map{
		"event":           event,
		"seats_available": available,
	})
}

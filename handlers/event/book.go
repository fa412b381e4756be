package event

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/garissa/event-planner/services"
	"github.com/garissa/event-planner/utils/middleware"
	"github.com/garissa/event-planner/utils/response"
)

// BookRequest represents a seat reservation request
type BookRequest struct {
	Seats int    `json:"seats"`
	Notes string `json:"notes" validate:"omitempty,max=255"`
}

// Book creates a pending booking for the current user against a published
// event. The seat check and the insert run atomically, so two users racing
// for the last seats cannot both succeed.
func (h *EventHandler) Book(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Seats == 0 {
		return response.BadRequest(c, "Seats is required")
	}
	if len(req.Notes) > 255 {
		return response.BadRequest(c, "Notes must be at most 255 characters")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	booking, err := h.bookingService.RequestBooking(user, uint(eventID), req.Seats, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrEventNotBookable):
			return response.BadRequest(c, "This event is not open for booking")
		case errors.Is(err, services.ErrDuplicateBooking):
			return response.Conflict(c, "You already have an active booking for this event")
		case errors.Is(err, services.ErrInsufficientSeats):
			return response.BadRequest(c, "Not enough seats available")
		case errors.Is(err, services.ErrInvalidSeatCount):
			return response.BadRequest(c, "Seat count must be at least 1")
		default:
			return response.InternalServerError(c, "Failed to create booking")
		}
	}

	return response.Created(c, booking)
}

package booking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/services"
	"github.com/garissa/event-planner/utils/middleware"
	"github.com/garissa/event-planner/utils/pagination"
	"github.com/garissa/event-planner/utils/response"
)

// BookingHandler handles booking management requests
type BookingHandler struct {
	db             *gorm.DB
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(db *gorm.DB) *BookingHandler {
	return &BookingHandler{
		db:             db,
		bookingService: services.NewBookingService(db),
	}
}

// MyBookings lists the current user's bookings, newest first.
func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	query := h.db.Model(&model.Booking{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")

	params := pagination.Resolve(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to list bookings")
	}

	var bookings []model.Booking
	err := query.Preload("Event").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&bookings).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list bookings")
	}

	return response.Paginated(c, bookings, pagination.BuildMeta(params, total))
}

// EventBookings lists all bookings for an event. Admins may view any
// event's bookings; university accounts only their own events'.
func (h *BookingHandler) EventBookings(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("id")
	if err != nil || eventID < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var event model.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		return response.NotFound(c, "Event not found")
	}

	if user.Role == model.RoleUniversity && event.OrganizerID != user.ID {
		return response.Forbidden(c, "You are not authorized to view bookings for this event")
	}
	if user.Role != model.RoleUniversity && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Only university or admin accounts may view event bookings")
	}

	query := h.db.Model(&model.Booking{}).
		Where("event_id = ?", event.ID).
		Order("created_at DESC, id DESC")

	params := pagination.Resolve(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to list bookings")
	}

	var bookings []model.Booking
	err = query.Preload("User").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&bookings).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list bookings")
	}

	return response.Paginated(c, bookings, pagination.BuildMeta(params, total))
}

// UpdateStatusRequest carries a booking status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a booking through its workflow. Approval re-checks
// remaining capacity before committing.
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	bookingID, err := c.ParamsInt("id")
	if err != nil || bookingID < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !model.ValidBookingStatus(req.Status) {
		return response.BadRequest(c, "Invalid booking status")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	booking, err := h.bookingService.GetBooking(uint(bookingID))
	if err != nil {
		return response.NotFound(c, "Booking not found")
	}

	if user.Role == model.RoleUniversity && booking.Event != nil && booking.Event.OrganizerID != user.ID {
		return response.Forbidden(c, "You are not authorized to manage this booking")
	}
	if user.Role != model.RoleUniversity && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Only university or admin accounts may manage bookings")
	}

	updated, err := h.bookingService.TransitionStatus(booking.ID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientSeats) {
			return response.BadRequest(c, "Not enough seats available to approve this booking")
		}
		return response.InternalServerError(c, "Failed to update booking status")
	}

	return response.SuccessWithMessage(c, "Booking status updated", updated)
}

// Cancel sets a booking to cancelled. Allowed for the booking's owner, the
// event's organizer, and admins.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	bookingID, err := c.ParamsInt("id")
	if err != nil || bookingID < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	booking, err := h.bookingService.GetBooking(uint(bookingID))
	if err != nil {
		return response.NotFound(c, "Booking not found")
	}

	isOwner := booking.UserID == user.ID
	isAdmin := user.Role == model.RoleAdmin
	isOrganizer := user.Role == model.RoleUniversity &&
		booking.Event != nil && booking.Event.OrganizerID == user.ID

	if !isOwner && !isAdmin && !isOrganizer {
		return response.Forbidden(c, "You are not authorized to cancel this booking")
	}

	if _, err := h.bookingService.TransitionStatus(booking.ID, model.BookingStatusCancelled); err != nil {
		return response.InternalServerError(c, "Failed to cancel booking")
	}

	return response.SuccessWithMessage(c, "Booking cancelled", nil)
}

package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/garissa/event-planner/model"
)

// Booking rejection conditions. Handlers map these to client-visible
// failures; none of them leaves a partial mutation behind.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrEventNotBookable  = errors.New("this event is not open for booking")
	ErrDuplicateBooking  = errors.New("you already have an active booking for this event")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrInvalidSeatCount  = errors.New("seat count must be at least 1")
	ErrInvalidStatus     = errors.New("invalid booking status")
)

// BookingService owns seat accounting and the booking status workflow.
//
// Capacity invariant: for any event, the sum of seats across bookings in
// pending or approved status never exceeds the event's capacity. Every
// mutation that moves a booking into the active set runs inside a
// transaction holding a row lock on the event, so concurrent requests
// against the same event serialize on the check-and-reserve sequence.
type BookingService struct {
	db *gorm.DB
}

// NewBookingService creates a new booking service
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// lockEvent loads the event under a row-level write lock. SQLite (used in
// tests) has no FOR UPDATE; its single-writer model serializes transactions
// anyway, so the clause is skipped there.
func lockEvent(tx *gorm.DB, eventID uint, event *model.Event) error {
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := tx.First(event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	return err
}

// SeatsReserved sums the seats of active (pending or approved) bookings for
// an event. excludeBookingID, when non-zero, removes one booking from the
// sum; callers use it when re-evaluating a booking that is itself part of
// the pending set.
func (s *BookingService) SeatsReserved(tx *gorm.DB, eventID uint, excludeBookingID uint) (int, error) {
	if tx == nil {
		tx = s.db
	}

	query := tx.Model(&model.Booking{}).
		Where("event_id = ? AND status IN ?", eventID, model.ActiveBookingStatuses)
	if excludeBookingID != 0 {
		query = query.Where("id <> ?", excludeBookingID)
	}

	var reserved int
	err := query.Select("COALESCE(SUM(seats), 0)").Scan(&reserved).Error
	return reserved, err
}

// SeatsAvailable returns max(capacity - reserved, 0) for an event.
func (s *BookingService) SeatsAvailable(tx *gorm.DB, event *model.Event, excludeBookingID uint) (int, error) {
	reserved, err := s.SeatsReserved(tx, event.ID, excludeBookingID)
	if err != nil {
		return 0, err
	}

	available := event.Capacity - reserved
	if available < 0 {
		available = 0
	}
	return available, nil
}

// RequestBooking creates a pending booking for the user, or rejects it with
// a distinct condition: the event is not published, the user already holds
// an active booking on it, or fewer than the requested seats remain.
func (s *BookingService) RequestBooking(user *model.User, eventID uint, seats int, notes string) (*model.Booking, error) {
	if seats < 1 {
		return nil, ErrInvalidSeatCount
	}

	var booking model.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := lockEvent(tx, eventID, &event); err != nil {
			return err
		}

		if event.Status != model.EventStatusPublished {
			return ErrEventNotBookable
		}

		var existing int64
		err := tx.Model(&model.Booking{}).
			Where("event_id = ? AND user_id = ? AND status IN ?",
				event.ID, user.ID, model.ActiveBookingStatuses).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateBooking
		}

		available, err := s.SeatsAvailable(tx, &event, 0)
		if err != nil {
			return err
		}
		if seats > available {
			return ErrInsufficientSeats
		}

		booking = model.Booking{
			EventID: event.ID,
			UserID:  user.ID,
			Seats:   seats,
			Status:  model.BookingStatusPending,
			Notes:   notes,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// TransitionStatus moves a booking to a new status. Approval re-checks
// availability at transition time with the booking's own seats excluded
// from the competing-reservation sum. No transition graph is enforced
// beyond that: rejected or cancelled bookings may be re-approved so long
// as capacity allows.
func (s *BookingService) TransitionStatus(bookingID uint, newStatus string) (*model.Booking, error) {
	if !model.ValidBookingStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var booking model.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		var event model.Event
		if err := lockEvent(tx, booking.EventID, &event); err != nil {
			return err
		}

		if newStatus == model.BookingStatusApproved {
			available, err := s.SeatsAvailable(tx, &event, booking.ID)
			if err != nil {
				return err
			}
			if booking.Seats > available {
				return ErrInsufficientSeats
			}
		}

		booking.Status = newStatus
		return tx.Model(&booking).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// GetBooking fetches a booking with its event preloaded.
func (s *BookingService) GetBooking(bookingID uint) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.Preload("Event").First(&booking, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

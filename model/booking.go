package model

import (
	"time"
)

// Booking statuses. A booking consumes event capacity only while its status
// is pending or approved.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled:
		return true
	}
	return false
}

// ActiveBookingStatuses are the statuses counted against event capacity.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusApproved}

// Booking is a seat reservation request by a user against an event.
type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	EventID   uint      `gorm:"index;not null" json:"event_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Seats     int       `gorm:"default:1;not null" json:"seats"`
	Status    string    `gorm:"type:varchar(20);default:'pending';not null" json:"status"`
	Notes     string    `gorm:"type:varchar(255)" json:"notes,omitempty"`

	// Relationships
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsActive reports whether the booking currently consumes capacity.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusApproved
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Event lifecycle statuses.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
)

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s string) bool {
	return s == EventStatusDraft || s == EventStatusPublished || s == EventStatusCancelled
}

// Event is a bookable happening published by a university or admin account.
// The organizer is the user that created it; the affiliated university
// profile is optional and may differ from the organizer's own profile.
type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Location    string         `gorm:"type:varchar(200);not null" json:"location"`
	Date        datatypes.Date `gorm:"not null" json:"date"`
	Time        datatypes.Time `gorm:"not null" json:"time"`
	Capacity    int            `gorm:"not null" json:"capacity"`
	Price       float64        `gorm:"type:numeric(10,2);default:0;not null" json:"price"`
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Status      string         `gorm:"type:varchar(20);default:'draft';not null" json:"status"`
	OrganizerID uint           `gorm:"index;not null" json:"organizer_id"`
	UniversityID *uint         `json:"university_id,omitempty"`

	// Relationships
	Organizer  *User              `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	University *UniversityProfile `gorm:"foreignKey:UniversityID;constraint:OnDelete:SET NULL" json:"university,omitempty"`
	Bookings   []Booking          `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

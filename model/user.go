package model

import (
	"time"
)

// Roles a user account can hold.
const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleUniversity = "university"
)

// ValidRole reports whether s is one of the known account roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleUser || s == RoleUniversity
}

// User represents a registered account in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password in JSON
	Role         string    `gorm:"type:varchar(20);default:'user';not null" json:"role"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IsActive     bool      `gorm:"default:true;not null" json:"is_active"`

	// Relationships
	Bookings          []Booking          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	EventsCreated     []Event            `gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE" json:"-"`
	UniversityProfile *UniversityProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"university_profile,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

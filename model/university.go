package model

import (
	"time"
)

// UniversityProfile holds the descriptive metadata attached 1:1 to a
// university-role user. Events reference it as their affiliation, which is
// distinct from the organizer relationship on the event itself.
type UniversityProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Address     string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	Contact     string    `gorm:"type:varchar(255)" json:"contact,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	LogoURL     string    `gorm:"type:varchar(500)" json:"logo_url,omitempty"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Events []Event `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

// TableName specifies the table name for UniversityProfile
func (UniversityProfile) TableName() string {
	return "university_profiles"
}

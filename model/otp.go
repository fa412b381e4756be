package model

import (
	"time"
)

// OTPPurposeRegistration is the default purpose tag for issued codes.
const OTPPurposeRegistration = "registration"

// OTPCode is a short-lived numeric verification code bound to an email and
// a purpose. Codes are single-use; verification always matches the most
// recently issued unused code for the email/purpose pair.
type OTPCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"type:varchar(255);index;not null" json:"email"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	Purpose   string    `gorm:"type:varchar(50);default:'registration';not null" json:"purpose"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IsUsed    bool      `gorm:"default:false;not null" json:"is_used"`
}

// TableName specifies the table name for OTPCode
func (OTPCode) TableName() string {
	return "otp_codes"
}

// IsExpired checks if the code has expired.
func (o *OTPCode) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// MarkUsed flags the code as consumed.
func (o *OTPCode) MarkUsed() {
	o.IsUsed = true
}

package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/garissa/event-planner/model"
)

const (
	otpLength = 6
	otpExpiry = 10 * time.Minute
)

// OTP verification failures.
var (
	ErrOTPInvalid = errors.New("invalid verification code")
	ErrOTPExpired = errors.New("verification code has expired")
)

// OTPService issues and verifies single-use email verification codes.
type OTPService struct {
	db *gorm.DB
}

// NewOTPService creates a new OTP service
func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{db: db}
}

// generateCode produces a 6-digit numeric code. Leading zeros are valid.
func generateCode() (string, error) {
	const digits = "0123456789"
	code := make([]byte, otpLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

// Issue creates a fresh code for the email and purpose, valid for ten
// minutes. Previously issued codes are left in place; verification only
// honors the most recent unused one, so issuing supersedes them.
func (s *OTPService) Issue(email, purpose string) (*model.OTPCode, error) {
	if purpose == "" {
		purpose = model.OTPPurposeRegistration
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	otp := &model.OTPCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpExpiry),
	}
	if err := s.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

// Verify consumes the most recently created unused code matching the email,
// code and purpose. Issuing a new code does not invalidate earlier unused
// ones, so a user who types the first emailed code after a resend still
// gets through while it is unexpired.
func (s *OTPService) Verify(email, code, purpose string) error {
	if purpose == "" {
		purpose = model.OTPPurposeRegistration
	}

	var otp model.OTPCode
	err := s.db.
		Where("email = ? AND code = ? AND purpose = ? AND is_used = ?", email, code, purpose, false).
		Order("created_at DESC, id DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}

	if otp.IsExpired() {
		return ErrOTPExpired
	}

	otp.MarkUsed()
	return s.db.Model(&otp).Update("is_used", true).Error
}

// PurgeStale deletes used codes and codes expired for longer than the given
// age. The cron scheduler calls this hourly.
func (s *OTPService) PurgeStale(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.
		Where("is_used = ? OR expires_at < ?", true, cutoff).
		Delete(&model.OTPCode{})
	return result.RowsAffected, result.Error
}

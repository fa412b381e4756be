package cron

import (
	"fmt"
	"time"

	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/services"
)

// PurgeStaleOTPCodes deletes consumed verification codes and codes that
// expired more than a day ago. Runs hourly.
func (m *CronManager) PurgeStaleOTPCodes() {
	jobName := "purge_stale_otp_codes"

	deleted, err := services.NewOTPService(m.db).PurgeStale(24 * time.Hour)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge otp codes: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d stale codes", deleted))
}

// CancelStalePendingBookings cancels bookings still pending after their
// event's date has passed, releasing the seats they held. Runs daily.
func (m *CronManager) CancelStalePendingBookings() {
	jobName := "cancel_stale_pending_bookings"

	today := time.Now().Format("2006-01-02")
	pastEvents := m.db.Model(&model.Event{}).Select("id").Where("date < ?", today)

	result := m.db.Model(&model.Booking{}).
		Where("status = ? AND event_id IN (?)", model.BookingStatusPending, pastEvents).
		Update("status", model.BookingStatusCancelled)
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cancel stale bookings: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Cancelled %d stale pending bookings", result.RowsAffected))
}

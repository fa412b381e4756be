package event

import (
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/garissa/event-planner/services"
	"github.com/garissa/event-planner/utils/validation"
)

// EventHandler handles event catalog requests
type EventHandler struct {
	db             *gorm.DB
	bookingService *services.BookingService
	validator      *validation.Validator
}

// NewEventHandler creates a new event handler
func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		db:             db,
		bookingService: services.NewBookingService(db),
		validator:      validation.NewValidator(),
	}
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func parseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return datatypes.Date(t), nil
}

func parseTimeOfDay(s string) (datatypes.Time, error) {
	for _, layout := range []string{"15:04:05", timeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return datatypes.Time(0), fmt.Errorf("time must be in HH:MM format")
}

// validPrice rejects negative prices and more than two decimal places.
// The comparison tolerates float64 representation noise so ordinary
// two-decimal prices like 19.99 pass.
func validPrice(price float64) bool {
	if price < 0 {
		return false
	}
	cents := price * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

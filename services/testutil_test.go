package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/garissa/event-planner/database"
	"github.com/garissa/event-planner/model"
)

var testDBCounter uint64

// newTestDB opens a fresh in-memory database with the full schema. Each
// call gets its own named memory database so parallel tests don't share
// state through sqlite's shared cache.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared",
		atomic.AddUint64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()

	user := &model.User{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, organizer *model.User, status string, capacity int) *model.Event {
	t.Helper()

	event := &model.Event{
		Title:       "Orientation Day",
		Description: "Welcome session for new students",
		Location:    "Main Hall",
		Date:        datatypes.Date(time.Now().AddDate(0, 0, 7)),
		Time:        datatypes.NewTime(10, 0, 0, 0),
		Capacity:    capacity,
		Status:      status,
		OrganizerID: organizer.ID,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

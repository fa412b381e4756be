package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/garissa/event-planner/database"
	"github.com/garissa/event-planner/model"
	authutil "github.com/garissa/event-planner/utils/auth"
	"github.com/garissa/event-planner/utils/middleware"
)

var testDBCounter uint64

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	jwtManager *authutil.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:admintest%d?mode=memory&cache=shared",
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

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret: "test-secret-key-for-handler-tests",
		Expiry: time.Hour,
		Issuer: "test",
	})
	handler := NewAdminHandler(db)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	app := fiber.New()
	admin := app.Group("/api/v1/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	admin.Get("/users", handler.ListUsers)
	admin.Put("/users/:id/ban", handler.SetUserBan)
	admin.Delete("/users/:id", handler.DeleteUser)
	admin.Get("/universities", handler.ListUniversities)
	admin.Post("/universities", handler.CreateUniversity)
	admin.Delete("/universities/:id", handler.DeleteUniversity)
	admin.Get("/events", handler.ListEvents)
	admin.Patch("/events/:id/status", handler.UpdateEventStatus)
	admin.Delete("/events/:id", handler.DeleteEvent)
	admin.Get("/stats", handler.Stats)

	return &testEnv{app: app, db: db, jwtManager: jwtManager}
}

func (e *testEnv) createUser(t *testing.T, email, role string) (*model.User, string) {
	t.Helper()

	user := &model.User{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	token, err := e.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return user, token
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "student@example.com", model.RoleUser)
	_, uniToken := env.createUser(t, "uni@example.com", model.RoleUniversity)

	for _, token := range []string{userToken, uniToken, ""} {
		status, _ := env.doJSON(t, http.MethodGet, "/api/v1/admin/users", nil, token)
		if status != http.StatusForbidden && status != http.StatusUnauthorized {
			t.Errorf("non-admin access: expected 401/403, got %d", status)
		}
	}
}

func TestListUsersRoleFilter(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", model.RoleAdmin)
	env.createUser(t, "a@example.com", model.RoleUser)
	env.createUser(t, "b@example.com", model.RoleUser)
	env.createUser(t, "uni@example.com", model.RoleUniversity)

	status, body := env.doJSON(t, http.MethodGet, "/api/v1/admin/users?role=user", nil, adminToken)
	if status != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d", status)
	}
	data, _ := body["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("expected 2 user-role accounts, got %d", len(data))
	}

	status, _ = env.doJSON(t, http.MethodGet, "/api/v1/admin/users?role=wizard", nil, adminToken)
	if status != http.StatusBadRequest {
		t.Errorf("invalid role filter: expected 400, got %d", status)
	}
}

func TestBanAndUnbanUser(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", model.RoleAdmin)
	target, _ := env.createUser(t, "target@example.com", model.RoleUser)

	status, _ := env.doJSON(t, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/users/%d/ban?action=ban", target.ID), nil, adminToken)
	if status != http.StatusOK {
		t.Fatalf("ban: expected 200, got %d", status)
	}

	var stored model.User
	if err := env.db.First(&stored, target.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.IsActive {
		t.Error("banned user must be inactive")
	}

	status, _ = env.doJSON(t, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/users/%d/ban?action=unban", target.ID), nil, adminToken)
	if status != http.StatusOK {
		t.Fatalf("unban: expected 200, got %d", status)
	}
	if err := env.db.First(&stored, target.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !stored.IsActive {
		t.Error("unbanned user must be active")
	}

	status, _ = env.doJSON(t, http.MethodPut,
		fmt.Sprintf("/api/v1/admin/users/%d/ban?action=obliterate", target.ID), nil, adminToken)
	if status != http.StatusBadRequest {
		t.Errorf("invalid action: expected 400, got %d", status)
	}
}

func TestDeleteUserGuards(t *testing.T) {
	env := newTestEnv(t)
	admin, adminToken := env.createUser(t, "admin@example.com", model.RoleAdmin)
	otherAdmin, _ := env.createUser(t, "admin2@example.com", model.RoleAdmin)
	target, _ := env.createUser(t, "target@example.com", model.RoleUser)

	status, _ := env.doJSON(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/users/%d", otherAdmin.ID), nil, adminToken)
	if status != http.StatusBadRequest {
		t.Errorf("deleting an admin: expected 400, got %d", status)
	}

	status, _ = env.doJSON(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/users/%d", admin.ID), nil, adminToken)
	if status != http.StatusBadRequest {
		t.Errorf("self-delete: expected 400, got %d", status)
	}

	status, _ = env.doJSON(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/users/%d", target.ID), nil, adminToken)
	if status != http.StatusOK {
		t.Fatalf("delete user: expected 200, got %d", status)
	}
	var count int64
	env.db.Model(&model.User{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("user still present after delete")
	}
}

func TestCreateAndDeleteUniversity(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", model.RoleAdmin)

	status, body := env.doJSON(t, http.MethodPost, "/api/v1/admin/universities", map[string]interface{}{
		"name":            "Garissa University",
		"email":           "Events@Garissa.ac.ke",
		"password":        "campuspass1",
		"university_name": "Garissa University",
		"address":         "Garissa Town",
	}, adminToken)
	if status != http.StatusCreated {
		t.Fatalf("create university: expected 201, got %d (%v)", status, body)
	}

	var user model.User
	if err := env.db.Where("email = ?", "events@garissa.ac.ke").First(&user).Error; err != nil {
		t.Fatalf("university user not found (email must be lowercased): %v", err)
	}
	if user.Role != model.RoleUniversity {
		t.Errorf("expected university role, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("admin-created accounts must be active immediately")
	}

	var profile model.UniversityProfile
	if err := env.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		t.Fatalf("university profile not found: %v", err)
	}

	// Duplicate email is rejected.
	status, _ = env.doJSON(t, http.MethodPost, "/api/v1/admin/universities", map[string]interface{}{
		"name":     "Garissa University",
		"email":    "events@garissa.ac.ke",
		"password": "campuspass1",
	}, adminToken)
	if status != http.StatusConflict {
		t.Errorf("duplicate university email: expected 409, got %d", status)
	}

	// Deleting the profile removes the owning account too.
	status, _ = env.doJSON(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/universities/%d", profile.ID), nil, adminToken)
	if status != http.StatusOK {
		t.Fatalf("delete university: expected 200, got %d", status)
	}
	var users, profiles int64
	env.db.Model(&model.User{}).Where("id = ?", user.ID).Count(&users)
	env.db.Model(&model.UniversityProfile{}).Where("id = ?", profile.ID).Count(&profiles)
	if users != 0 || profiles != 0 {
		t.Errorf("expected user and profile removed, got users=%d profiles=%d", users, profiles)
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", model.RoleAdmin)
	organizer, _ := env.createUser(t, "uni@example.com", model.RoleUniversity)
	user, _ := env.createUser(t, "student@example.com", model.RoleUser)

	events := []model.Event{
		{Title: "A", Description: "Published one", Location: "Hall", Capacity: 10,
			Status: model.EventStatusPublished, OrganizerID: organizer.ID},
		{Title: "B", Description: "Draft one", Location: "Hall", Capacity: 10,
			Status: model.EventStatusDraft, OrganizerID: organizer.ID},
	}
	for i := range events {
		if err := env.db.Create(&events[i]).Error; err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
	}
	bookings := []model.Booking{
		{EventID: events[0].ID, UserID: user.ID, Seats: 1, Status: model.BookingStatusApproved},
		{EventID: events[0].ID, UserID: organizer.ID, Seats: 1, Status: model.BookingStatusPending},
	}
	for i := range bookings {
		if err := env.db.Create(&bookings[i]).Error; err != nil {
			t.Fatalf("failed to create booking: %v", err)
		}
	}

	status, body := env.doJSON(t, http.MethodGet, "/api/v1/admin/stats", nil, adminToken)
	if status != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", status)
	}
	data, _ := body["data"].(map[string]interface{})
	expected := map[string]float64{
		"users":            3,
		"universities":     0,
		"events":           2,
		"publishedEvents":  1,
		"bookings":         2,
		"approvedBookings": 1,
	}
	for key, want := range expected {
		if data[key] != want {
			t.Errorf("stats[%s]: expected %v, got %v", key, want, data[key])
		}
	}
}

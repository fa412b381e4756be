package auth

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

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared",
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
	handler := NewAuthHandler(db, jwtManager, nil)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	app := fiber.New()
	group := app.Group("/api/v1/auth")
	group.Post("/register", handler.Register)
	group.Post("/verify", handler.Verify)
	group.Post("/resend-otp", handler.ResendOTP)
	group.Post("/login", handler.Login)
	group.Get("/profile", authMiddleware.Required(), handler.GetProfile)
	group.Patch("/profile", authMiddleware.Required(), handler.UpdateProfile)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (int, map[string]interface{}) {
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

	resp, err := app.Test(req, -1)
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

func latestOTPCode(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()

	var otp model.OTPCode
	err := db.Where("email = ?", email).Order("id DESC").First(&otp).Error
	if err != nil {
		t.Fatalf("no OTP code found for %s: %v", email, err)
	}
	return otp.Code
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Amina Yusuf",
		"email":    "amina@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	var user model.User
	if err := db.Where("email = ?", "amina@example.com").First(&user).Error; err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.IsActive {
		t.Error("freshly registered account must not be active")
	}

	// Login is rejected until the email is verified.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "amina@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusForbidden {
		t.Fatalf("login before verification: expected 403, got %d", status)
	}

	code := latestOTPCode(t, db, "amina@example.com")
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/verify", map[string]interface{}{
		"email": "amina@example.com",
		"code":  code,
	}, "")
	if status != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d (%v)", status, body)
	}
	data, _ := body["data"].(map[string]interface{})
	if verifyToken, _ := data["accessToken"].(string); verifyToken == "" {
		t.Fatal("verify response missing accessToken")
	}

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "amina@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login after verification: expected 200, got %d", status)
	}
	data, _ = body["data"].(map[string]interface{})
	token, _ := data["accessToken"].(string)
	if token == "" {
		t.Fatal("login response missing accessToken")
	}

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/auth/profile", nil, token)
	if status != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", status)
	}
	profile, _ := body["data"].(map[string]interface{})
	if profile["email"] != "amina@example.com" {
		t.Errorf("profile email mismatch: %v", profile["email"])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "First",
		"email":    "taken@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	// Re-registering an unverified account succeeds and refreshes it.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Second",
		"email":    "taken@example.com",
		"password": "anothersecret",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("re-register unverified: expected 201, got %d", status)
	}

	var user model.User
	if err := db.Where("email = ?", "taken@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not found: %v", err)
	}
	if user.Name != "Second" {
		t.Errorf("re-register must refresh details, got name %q", user.Name)
	}

	// Once active, the email is taken for good.
	if err := db.Model(&user).Update("is_active", true).Error; err != nil {
		t.Fatalf("failed to activate user: %v", err)
	}
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Third",
		"email":    "taken@example.com",
		"password": "yetanother1",
	}, "")
	if status != http.StatusConflict {
		t.Fatalf("register active duplicate: expected 409, got %d", status)
	}
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Halima",
		"email":    "halima@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	code := latestOTPCode(t, db, "halima@example.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify", map[string]interface{}{
		"email": "halima@example.com",
		"code":  wrong,
	}, "")
	if status != http.StatusBadRequest {
		t.Fatalf("verify wrong code: expected 400, got %d", status)
	}

	var user model.User
	if err := db.Where("email = ?", "halima@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not found: %v", err)
	}
	if user.IsActive {
		t.Error("failed verification must not activate the account")
	}
}

func TestResendOTPKeepsFirstCodeUsable(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Yusra",
		"email":    "yusra@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	firstCode := latestOTPCode(t, db, "yusra@example.com")

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/resend-otp", map[string]interface{}{
		"email": "yusra@example.com",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("resend: expected 200, got %d", status)
	}
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify", map[string]interface{}{
		"email": "yusra@example.com",
		"code":  firstCode,
	}, "")
	if status != http.StatusOK {
		t.Fatalf("verify first code after resend: expected 200, got %d", status)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, db := newTestApp(t)

	hash, err := authutil.HashPassword("correct-horse1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := model.User{
		Name:         "Active User",
		Email:        "active@example.com",
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "active@example.com",
		"password": "battery-staple",
	}, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("login wrong password: expected 401, got %d", status)
	}
}

func TestAuthEmailIsCaseInsensitive(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Halima",
		"email":    "Halima@Example.COM",
		"password": "supersecret1",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	var user model.User
	if err := db.Where("email = ?", "halima@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected account stored under lowercased email: %v", err)
	}

	code := latestOTPCode(t, db, "halima@example.com")
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/verify", map[string]interface{}{
		"email": "HALIMA@example.com",
		"code":  code,
	}, "")
	if status != http.StatusOK {
		t.Fatalf("verify with mixed-case email: expected 200, got %d", status)
	}

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "Halima@example.com",
		"password": "supersecret1",
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login with mixed-case email: expected 200, got %d", status)
	}

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"name":     "Halima Again",
		"email":    "hAlImA@eXaMpLe.CoM",
		"password": "supersecret1",
	}, "")
	if status != http.StatusConflict {
		t.Fatalf("re-register mixed-case duplicate: expected 409, got %d", status)
	}
}

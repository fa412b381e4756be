package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/garissa/event-planner/database"
	"github.com/garissa/event-planner/handlers"
	admin_handlers "github.com/garissa/event-planner/handlers/admin"
	auth_handlers "github.com/garissa/event-planner/handlers/auth"
	booking_handlers "github.com/garissa/event-planner/handlers/booking"
	event_handlers "github.com/garissa/event-planner/handlers/event"
	"github.com/garissa/event-planner/model"
	"github.com/garissa/event-planner/utils"
	"github.com/garissa/event-planner/utils/auth"
	"github.com/garissa/event-planner/utils/cache"
	"github.com/garissa/event-planner/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "garissa-event-planner-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: jwtSecret,
		Expiry: 24 * time.Hour,
		Issuer: jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	eventHandler := event_handlers.NewEventHandler(db)
	bookingHandler := booking_handlers.NewBookingHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify", authHandler.Verify)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Profile routes (protected)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Patch("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Event catalog
	events := api.Group("/events")
	events.Get("/", authMiddleware.Optional(), eventHandler.List)
	events.Get("/:id", authMiddleware.Optional(), eventHandler.Get)
	events.Post("/", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleUniversity, model.RoleAdmin), eventHandler.Create)
	events.Put("/:id", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleUniversity, model.RoleAdmin), eventHandler.Update)
	events.Patch("/:id/status", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleUniversity, model.RoleAdmin), eventHandler.UpdateStatus)
	events.Delete("/:id", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleUniversity, model.RoleAdmin), eventHandler.Delete)
	events.Post("/:id/book", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleUser), eventHandler.Book)

	// Bookings
	bookings := api.Group("/bookings", authMiddleware.Required())
	bookings.Get("/me", bookingHandler.MyBookings)
	bookings.Get("/event/:id", bookingHandler.EventBookings)
	bookings.Put("/:id", bookingHandler.UpdateStatus)
	bookings.Delete("/:id", bookingHandler.Cancel)

	// Admin moderation
	admin := api.Group("/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/ban", adminHandler.SetUserBan)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/universities", adminHandler.ListUniversities)
	admin.Post("/universities", adminHandler.CreateUniversity)
	admin.Delete("/universities/:id", adminHandler.DeleteUniversity)
	admin.Get("/events", adminHandler.ListEvents)
	admin.Patch("/events/:id/status", adminHandler.UpdateEventStatus)
	admin.Delete("/events/:id", adminHandler.DeleteEvent)
	admin.Get("/stats", adminHandler.Stats)
}

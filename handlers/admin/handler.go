package admin

import (
	"gorm.io/gorm"

	"github.com/garissa/event-planner/utils/validation"
)

// AdminHandler handles moderation and platform management requests. All of
// its routes sit behind the admin role requirement.
type AdminHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

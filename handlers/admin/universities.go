package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/garissa/event-planner/model"
	authutil "github.com/garissa/event-planner/utils/auth"
	"github.com/garissa/event-planner/utils/pagination"
	"github.com/garissa/event-planner/utils/response"
	"github.com/garissa/event-planner/utils/validation"
)

// CreateUniversityRequest bundles the account credentials and the profile
// details for a new university, created together in one transaction.
type CreateUniversityRequest struct {
	Name           string `json:"name" validate:"required,min=2"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Phone          string `json:"phone,omitempty"`
	UniversityName string `json:"university_name,omitempty"`
	Address        string `json:"address,omitempty"`
	Contact        string `json:"contact,omitempty"`
	Description    string `json:"description,omitempty"`
	LogoURL        string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// ListUniversities returns all university profiles, newest first.
func (h *AdminHandler) ListUniversities(c *fiber.Ctx) error {
	query := h.db.Model(&model.UniversityProfile{}).Order("created_at DESC, id DESC")

	params := pagination.Resolve(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to list universities")
	}

	var universities []model.UniversityProfile
	err := query.Preload("User").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&universities).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list universities")
	}

	return response.Paginated(c, universities, pagination.BuildMeta(params, total))
}

// CreateUniversity provisions a university account. Unlike self-registered
// users, these accounts need no email verification and are active at once.
func (h *AdminHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}
	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	email := strings.ToLower(req.Email)

	var existing model.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return response.Conflict(c, "A user with this email already exists")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	profileName := req.UniversityName
	if profileName == "" {
		profileName = req.Name
	}

	var university model.UniversityProfile
	err = h.db.Transaction(func(tx *gorm.DB) error {
		user := model.User{
			Name:         validation.SanitizeString(req.Name),
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         model.RoleUniversity,
			Phone:        req.Phone,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		university = model.UniversityProfile{
			UserID:      user.ID,
			Name:        validation.SanitizeString(profileName),
			Address:     req.Address,
			Contact:     req.Contact,
			Description: req.Description,
			LogoURL:     req.LogoURL,
		}
		return tx.Create(&university).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create university account")
	}

	return response.Created(c, university)
}

// DeleteUniversity removes a university profile together with its owning
// user account.
func (h *AdminHandler) DeleteUniversity(c *fiber.Ctx) error {
	universityID, err := c.ParamsInt("id")
	if err != nil || universityID < 1 {
		return response.BadRequest(c, "Invalid university ID")
	}

	var university model.UniversityProfile
	if err := h.db.First(&university, universityID).Error; err != nil {
		return response.NotFound(c, "University not found")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&university).Error; err != nil {
			return err
		}
		return tx.Select("Bookings", "EventsCreated").
			Delete(&model.User{}, university.UserID).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete university account")
	}

	return response.SuccessWithMessage(c, "University account deleted successfully", nil)
}

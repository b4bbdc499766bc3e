package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nilkanth/internal/middleware"
	"github.com/example/nilkanth/internal/models"
	"github.com/example/nilkanth/internal/utils"
)

// ProfileHandler manages the authenticated user's profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

type addressRequest struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark"`
}

// updateProfileRequest enumerates exactly which profile fields are settable.
// Each field is independently optional; absent fields are left untouched.
type updateProfileRequest struct {
	Name        *string         `json:"name"`
	Email       *string         `json:"email"`
	Phone       *string         `json:"phone"`
	Avatar      *string         `json:"avatar"`
	Address     *addressRequest `json:"address"`
	OldPassword *string         `json:"old_password"`
	NewPassword *string         `json:"new_password"`
}

// UpdateProfile applies a partial profile update. Email and phone changes
// are rechecked for uniqueness; password changes require the current
// password and are refused for passwordless accounts.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}

	if req.OldPassword != nil && req.NewPassword != nil {
		if !user.HasPassword() {
			return fiber.NewError(fiber.StatusBadRequest, "cannot change password for social login accounts")
		}
		if !utils.CheckPassword(user.PasswordHash, *req.OldPassword) {
			return fiber.NewError(fiber.StatusBadRequest, "current password is incorrect")
		}

		passwordHash, err := utils.HashPassword(*req.NewPassword)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
		}
		updates["password_hash"] = passwordHash
	}

	if req.Email != nil && *req.Email != user.Email {
		var existing models.User
		err := h.db.Where("email = ? AND id != ?", *req.Email, user.ID).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "email already in use")
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		updates["email"] = *req.Email
	}

	if req.Phone != nil {
		current := ""
		if user.Phone != nil {
			current = *user.Phone
		}
		if *req.Phone != current {
			if *req.Phone == "" {
				updates["phone"] = nil
			} else {
				var existing models.User
				err := h.db.Where("phone = ? AND id != ?", *req.Phone, user.ID).First(&existing).Error
				if err == nil {
					return fiber.NewError(fiber.StatusBadRequest, "phone number already in use")
				} else if err != gorm.ErrRecordNotFound {
					return err
				}
				updates["phone"] = *req.Phone
			}
		}
	}

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Address != nil {
		updates["address_street"] = req.Address.Street
		updates["address_city"] = req.Address.City
		updates["address_state"] = req.Address.State
		updates["address_pincode"] = req.Address.Pincode
		updates["address_landmark"] = req.Address.Landmark
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
	}

	var updated models.User
	if err := h.db.First(&updated, "id = ?", user.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "profile updated successfully",
		"user":    updated,
	})
}

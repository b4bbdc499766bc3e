package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nilkanth/internal/config"
	"github.com/example/nilkanth/internal/models"
	"github.com/example/nilkanth/internal/services"
	"github.com/example/nilkanth/internal/utils"
)

const resetTokenTTL = 10 * time.Minute

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// PasswordResetHandler manages the forgot-password flow.
type PasswordResetHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer Mailer
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, cfg *config.Config, mailer Mailer) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, cfg: cfg, mailer: mailer}
}

type requestResetRequest struct {
	Email string `json:"email"`
}

// RequestReset issues a single-use, time-boxed reset token and mails it to
// the account's address. Only the token's hash is stored; if the mail cannot
// be sent the stored pair is rolled back so no dangling reset path survives.
func (h *PasswordResetHandler) RequestReset(c *fiber.Ctx) error {
	var req requestResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if !user.HasPassword() && (user.GoogleID != "" || user.Phone != nil) {
		return fiber.NewError(fiber.StatusBadRequest,
			"this account uses google/phone login, please sign in using that method")
	}

	tokenBytes := make([]byte, 20)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	resetToken := hex.EncodeToString(tokenBytes)
	tokenHash := hashResetToken(resetToken)
	expiry := time.Now().Add(resetTokenTTL)

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"reset_token_hash":   tokenHash,
		"reset_token_expiry": expiry,
	}).Error; err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", h.cfg.AppURL, resetToken)
	if err := h.mailer.Send(req.Email, "Password Reset Request", services.ResetEmailBody(resetURL)); err != nil {
		log.Printf("[Reset] Mail dispatch failed for %s: %v", req.Email, err)

		if rbErr := h.db.Model(&user).Updates(map[string]interface{}{
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
		}).Error; rbErr != nil {
			log.Printf("[Reset] Failed to roll back reset token for %s: %v", req.Email, rbErr)
		}

		return fiber.NewError(fiber.StatusInternalServerError, "email could not be sent")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "email sent",
	})
}

type completeResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// CompleteReset consumes a reset token and sets the new password. The token
// match, expiry check, password update, and field clear happen in a single
// statement, so a consumed token can never succeed twice.
func (h *PasswordResetHandler) CompleteReset(c *fiber.Ctx) error {
	var req completeResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Token == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token and password are required")
	}

	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	result := h.db.Model(&models.User{}).
		Where("reset_token_hash = ? AND reset_token_expiry > ?", hashResetToken(req.Token), time.Now()).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "password updated successfully",
	})
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package handlers

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nilkanth/internal/config"
	"github.com/example/nilkanth/internal/models"
	"github.com/example/nilkanth/internal/otp"
)

const otpTTL = 5 * time.Minute

// SMSSender dispatches a one-time code to a phone number.
type SMSSender interface {
	SendOTP(phone, code string) error
}

// OTPHandler manages phone one-time-code login endpoints.
type OTPHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	store otp.Store
	sms   SMSSender
}

// NewOTPHandler constructs an OTPHandler.
func NewOTPHandler(db *gorm.DB, cfg *config.Config, store otp.Store, sms SMSSender) *OTPHandler {
	return &OTPHandler{db: db, cfg: cfg, store: store, sms: sms}
}

type requestOTPRequest struct {
	Phone string `json:"phone"`
}

// RequestOTP generates a new code for the phone number, replacing any
// outstanding one, and hands it to the SMS provider. Provider failures are
// logged but not surfaced to the caller.
func (h *OTPHandler) RequestOTP(c *fiber.Ctx) error {
	var req requestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Phone) < 10 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	code, err := generateOTPCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}

	challenge := otp.Challenge{
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := h.store.Put(c.Context(), req.Phone, challenge); err != nil {
		return err
	}

	if err := h.sms.SendOTP(req.Phone, code); err != nil {
		log.Printf("[OTP] SMS dispatch failed for %s: %v", req.Phone, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"otp"`
}

// VerifyOTP checks the submitted code, consumes the challenge, and signs the
// caller in, creating a placeholder account on first phone login.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone and otp are required")
	}

	challenge, ok, err := h.store.Get(c.Context(), req.Phone)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "otp expired or not requested")
	}

	if challenge.Code != req.Code {
		// Wrong code leaves the challenge intact for retry until expiry.
		return fiber.NewError(fiber.StatusBadRequest, "invalid otp")
	}

	if challenge.Expired() {
		if err := h.store.Delete(c.Context(), req.Phone); err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, "otp expired")
	}

	// Single use: consume before issuing the session.
	if err := h.store.Delete(c.Context(), req.Phone); err != nil {
		return err
	}

	user, err := h.findOrCreatePhoneUser(req.Phone)
	if err != nil {
		return err
	}

	if err := issueSession(c, h.cfg, user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userSummary(user),
	})
}

// findOrCreatePhoneUser resolves the identity for a verified phone number.
// First-time phone logins get a placeholder name and synthesized email the
// user can change later from the profile page.
func (h *OTPHandler) findOrCreatePhoneUser(phone string) (*models.User, error) {
	var user models.User
	err := h.db.Where("phone = ?", phone).First(&user).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		user = models.User{
			Name:          fmt.Sprintf("User %s", phone[len(phone)-4:]),
			Email:         fmt.Sprintf("%s@phone.auth.user", phone),
			Phone:         &phone,
			PhoneVerified: true,
			Role:          models.RoleUser,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !user.PhoneVerified:
		if err := h.db.Model(&user).Update("phone_verified", true).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

func generateOTPCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

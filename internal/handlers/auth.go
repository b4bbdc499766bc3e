package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nilkanth/internal/config"
	"github.com/example/nilkanth/internal/middleware"
	"github.com/example/nilkanth/internal/models"
	"github.com/example/nilkanth/internal/services"
	"github.com/example/nilkanth/internal/utils"
)

// GoogleVerifier verifies an external Google credential and returns the
// provider's claims.
type GoogleVerifier interface {
	Verify(credential string) (*services.GoogleClaims, error)
}

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	google GoogleVerifier
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, google GoogleVerifier) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, google: google}
}

// issueSession mints a session token for the user and attaches it as the
// session cookie.
func issueSession(c *fiber.Ctx, cfg *config.Config, user *models.User) error {
	token, err := utils.GenerateToken(cfg.JWTSecret, user, cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TokenExpires.Seconds()),
		Secure:   c.Secure(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return nil
}

// userSummary is the identity payload returned by auth endpoints.
func userSummary(user *models.User) fiber.Map {
	summary := fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
	if user.Phone != nil {
		summary["phone"] = *user.Phone
	}
	if user.Avatar != "" {
		summary["avatar"] = user.Avatar
	}
	return summary
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Signup creates a new account with email and password.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "user with this email already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if req.Phone != "" {
		if err := h.db.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "user with this phone already exists")
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		PhoneVerified: false,
		Role:          models.RoleUser,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	if err := issueSession(c, h.cfg, &user); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userSummary(&user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user by email and password. Failures are
// deliberately vague to avoid account enumeration.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing email or password")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !user.HasPassword() || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := issueSession(c, h.cfg, &user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userSummary(&user),
	})
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

// GoogleLogin signs a user in with a Google ID token, creating the account
// on first use and linking the Google identity to an existing email account
// otherwise.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	claims, err := h.google.Verify(req.Credential)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid google token")
	}

	var user models.User
	err = h.db.Where("email = ?", claims.Email).First(&user).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		user = models.User{
			Name:     claims.Name,
			Email:    claims.Email,
			GoogleID: claims.Subject,
			Avatar:   claims.Picture,
			Role:     models.RoleUser,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	case user.GoogleID == "":
		// Link the Google identity to the existing email account. The
		// provider has already verified the email.
		updates := map[string]interface{}{"google_id": claims.Subject}
		if claims.Picture != "" {
			updates["avatar"] = claims.Picture
		}
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
	}

	if err := issueSession(c, h.cfg, &user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userSummary(&user),
	})
}

// Me returns the identity behind the session cookie, or a null user. It
// never errors: an absent or invalid session is simply anonymous.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token := c.Cookies(middleware.SessionCookieName)
	if token == "" {
		return c.JSON(fiber.Map{"user": nil})
	}

	claims, err := utils.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		return c.JSON(fiber.Map{"user": nil})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.JSON(fiber.Map{"user": nil})
	}

	return c.JSON(fiber.Map{"user": userSummary(&user)})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{"success": true})
}

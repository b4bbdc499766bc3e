package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/nilkanth/internal/config"
	"github.com/example/nilkanth/internal/utils"
)

// SessionCookieName is the cookie carrying the user session token.
const SessionCookieName = "token"

// AdminCookieName is the cookie carrying the admin session sentinel.
const AdminCookieName = "admin_token"

// AdminCookieValue is the sentinel stored in the admin cookie after a
// successful admin login.
const AdminCookieValue = "valid_admin_token"

const claimsContextKey = "currentClaims"

// AuthMiddleware validates the session cookie and loads the session claims
// into context. A missing or invalid cookie is treated as anonymous and
// rejected with 401 on protected routes.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		c.Locals(claimsContextKey, claims)
		return c.Next()
	}
}

// CurrentClaims extracts the authenticated session claims from context.
func CurrentClaims(c *fiber.Ctx) (*utils.SessionClaims, bool) {
	value := c.Locals(claimsContextKey)
	if value == nil {
		return nil, false
	}

	if claims, ok := value.(*utils.SessionClaims); ok {
		return claims, true
	}

	return nil, false
}

// AdminMiddleware gates admin endpoints on the admin cookie sentinel.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies(AdminCookieName) != AdminCookieValue {
			return fiber.NewError(fiber.StatusUnauthorized, "admin session required")
		}
		return c.Next()
	}
}

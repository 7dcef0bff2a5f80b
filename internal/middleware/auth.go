package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"chatdesk/internal/session"
)

// Locals keys set by the auth middleware.
const (
	IdentityKey     = "identity"
	AdminSessionKey = "admin_session"
)

// RequireUser authenticates the request with a Bearer token and stores
// the resolved identity in Locals. No store round-trip happens here; the
// identity is whatever the token carried at issuance.
func RequireUser(tokens *session.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "missing authorization header",
			})
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid authorization header",
			})
		}

		identity, err := tokens.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid or expired token",
			})
		}

		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// Identity pulls the authenticated identity out of the request context.
// Only valid behind RequireUser.
func Identity(c *fiber.Ctx) session.Identity {
	identity, _ := c.Locals(IdentityKey).(session.Identity)
	return identity
}

// RequireAdmin authenticates with the back-office session cookie. Every
// request resolves the session against the shared store, so revocation
// takes effect immediately.
func RequireAdmin(sessions *session.AdminStore, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "admin authentication required",
			})
		}

		sess, err := sessions.Get(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid or expired session",
			})
		}

		c.Locals(AdminSessionKey, sess)
		return c.Next()
	}
}

// AdminSession pulls the resolved admin session out of the request
// context. Only valid behind RequireAdmin.
func AdminSession(c *fiber.Ctx) session.AdminSession {
	sess, _ := c.Locals(AdminSessionKey).(session.AdminSession)
	return sess
}

package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chatdesk/internal/middleware"
	"chatdesk/internal/model"
	"chatdesk/internal/service"
)

type AdminHandler struct {
	admin        *service.AdminService
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
	log          *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, cookieName string, cookieSecure bool, sessionTTL time.Duration, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:        admin,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
		log:          log,
	}
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req service.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.admin.Login(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    result.Token,
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{
		"status": "success",
		"admin":  result.Admin,
	})
}

func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookieName)
	if err := h.admin.Logout(c.Context(), token); err != nil {
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"stats":  stats,
	})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	var role *model.Role
	if raw := c.Query("role"); raw != "" {
		parsed := model.Role(raw)
		if !parsed.Valid() {
			return badRequest(c, "invalid role filter")
		}
		role = &parsed
	}

	users, err := h.admin.ListUsers(c.Context(), page, role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"users":  users,
		"page":   page,
	})
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.admin.SetUserActive(c.Context(), userID, req.IsActive)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"user":   user,
	})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	if err := h.admin.DeleteUser(c.Context(), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	sess := middleware.AdminSession(c)
	if err := h.admin.ChangePassword(c.Context(), sess.ID, req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

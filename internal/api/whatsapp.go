package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chatdesk/internal/middleware"
	"chatdesk/internal/service"
)

type WhatsAppHandler struct {
	whatsapp *service.WhatsAppService
	log      *slog.Logger
}

func NewWhatsAppHandler(whatsapp *service.WhatsAppService, log *slog.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{whatsapp: whatsapp, log: log}
}

type sendWhatsAppRequest struct {
	UserID  *uuid.UUID `json:"user_id"`
	GroupID *uuid.UUID `json:"group_id"`
	Message string     `json:"message"`
}

// Send generates wa.me links for a single user or a whole group. The
// response reports per-recipient outcomes; nothing is delivered by the
// server itself.
func (h *WhatsAppHandler) Send(c *fiber.Ctx) error {
	var req sendWhatsAppRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if (req.UserID == nil) == (req.GroupID == nil) {
		return badRequest(c, "exactly one of user_id or group_id is required")
	}

	actor := middleware.Identity(c)
	var (
		delivery service.Delivery
		err      error
	)
	if req.UserID != nil {
		delivery, err = h.whatsapp.GenerateDirect(c.Context(), actor, *req.UserID, req.Message)
	} else {
		delivery, err = h.whatsapp.GenerateGroup(c.Context(), actor, *req.GroupID, req.Message)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"sent":       delivery.Sent,
		"failed":     delivery.Failed,
		"recipients": delivery.Recipients,
	})
}

func (h *WhatsAppHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.whatsapp.Status())
}

package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chatdesk/internal/middleware"
	"chatdesk/internal/service"
)

type GroupHandler struct {
	groups *service.GroupService
	log    *slog.Logger
}

func NewGroupHandler(groups *service.GroupService, log *slog.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, log: log}
}

func (h *GroupHandler) List(c *fiber.Ctx) error {
	groups, err := h.groups.List(c.Context(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"groups": groups,
	})
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var req service.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	group, err := h.groups.Create(c.Context(), middleware.Identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"group":  group,
	})
}

type addMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *GroupHandler) AddMember(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "invalid group id")
	}
	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.groups.AddMember(c.Context(), middleware.Identity(c), groupID, req.UserID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
	})
}

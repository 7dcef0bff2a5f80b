package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chatdesk/internal/middleware"
	"chatdesk/internal/service"
)

type MessageHandler struct {
	messages      *service.MessageService
	conversations *service.ConversationService
	log           *slog.Logger
}

func NewMessageHandler(messages *service.MessageService, conversations *service.ConversationService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, conversations: conversations, log: log}
}

// Conversations lists the actor's inbox: threads with history first,
// then contacts they could message.
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	list, err := h.conversations.List(c.Context(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":        "success",
		"conversations": list,
	})
}

func (h *MessageHandler) DirectThread(c *fiber.Ctx) error {
	otherID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	thread, err := h.messages.ListDirect(c.Context(), middleware.Identity(c), otherID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":     "success",
		"other_user": thread.OtherUser,
		"messages":   thread.Messages,
	})
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *MessageHandler) SendDirect(c *fiber.Ctx) error {
	recipientID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	sent, err := h.messages.SendDirect(c.Context(), middleware.Identity(c), recipientID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": sent,
	})
}

func (h *MessageHandler) GroupThread(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "invalid group id")
	}

	thread, err := h.messages.ListGroup(c.Context(), middleware.Identity(c), groupID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":   "success",
		"group":    thread.Group,
		"members":  thread.Members,
		"messages": thread.Messages,
	})
}

func (h *MessageHandler) SendGroup(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "invalid group id")
	}
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	msg, err := h.messages.SendGroup(c.Context(), middleware.Identity(c), groupID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": msg,
	})
}

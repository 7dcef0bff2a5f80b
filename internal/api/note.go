package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chatdesk/internal/middleware"
	"chatdesk/internal/service"
)

type NoteHandler struct {
	notes *service.NoteService
	log   *slog.Logger
}

func NewNoteHandler(notes *service.NoteService, log *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, log: log}
}

// List returns the acting agent's own notes.
func (h *NoteHandler) List(c *fiber.Ctx) error {
	notes, err := h.notes.ListByAuthor(c.Context(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"notes":  notes,
	})
}

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var req service.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	note, err := h.notes.Create(c.Context(), middleware.Identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"note":   note,
	})
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	noteID, err := uuid.Parse(c.Params("noteId"))
	if err != nil {
		return badRequest(c, "invalid note id")
	}
	var req service.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	note, err := h.notes.Update(c.Context(), middleware.Identity(c), noteID, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"note":   note,
	})
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	noteID, err := uuid.Parse(c.Params("noteId"))
	if err != nil {
		return badRequest(c, "invalid note id")
	}

	if err := h.notes.Delete(c.Context(), middleware.Identity(c), noteID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
	})
}

// Summary gives a user the per-agent aggregate of notes about them.
func (h *NoteHandler) Summary(c *fiber.Ctx) error {
	summaries, err := h.notes.Summary(c.Context(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"summaries": summaries,
	})
}

// ForUser returns notes about one user. For user callers the agent_id
// query parameter is mandatory; agents are always scoped to their own
// notes.
func (h *NoteHandler) ForUser(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var agentFilter *uuid.UUID
	if raw := c.Query("agent_id"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid agent id")
		}
		agentFilter = &agentID
	}

	notes, err := h.notes.ListForUser(c.Context(), middleware.Identity(c), subjectID, agentFilter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"notes":  notes,
	})
}

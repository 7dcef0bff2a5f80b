package api

import (
	"github.com/gofiber/fiber/v2"

	"chatdesk/internal/middleware"
	"chatdesk/internal/service"
)

type DirectoryHandler struct {
	directory *service.DirectoryService
}

func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// List returns the contacts visible to the actor's role.
func (h *DirectoryHandler) List(c *fiber.Ctx) error {
	users, err := h.directory.List(c.Context(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"users":  users,
	})
}

package api

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Message   *MessageHandler
	Group     *GroupHandler
	Note      *NoteHandler
	WhatsApp  *WhatsAppHandler
	Directory *DirectoryHandler
	Admin     *AdminHandler
	Health    *HealthHandler
}

// Register mounts all routes on the app. requireUser and requireAdmin
// are the two auth gates; each is scoped to its own prefixes so the
// public and admin surfaces never pass through the user token check.
func Register(app *fiber.App, h Handlers, requireUser, requireAdmin fiber.Handler) {
	api := app.Group("/api")

	api.Get("/health", h.Health.Healthy)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	api.Get("/conversations", requireUser, h.Message.Conversations)
	api.Get("/users", requireUser, h.Directory.List)

	dm := api.Group("/direct-messages", requireUser)
	dm.Get("/:userId", h.Message.DirectThread)
	dm.Post("/:userId", h.Message.SendDirect)

	groups := api.Group("/groups", requireUser)
	groups.Get("", h.Group.List)
	groups.Post("", h.Group.Create)
	groups.Post("/:groupId/members", h.Group.AddMember)
	groups.Get("/:groupId/messages", h.Message.GroupThread)
	groups.Post("/:groupId/messages", h.Message.SendGroup)

	notes := api.Group("/private-notes", requireUser)
	notes.Get("", h.Note.List)
	notes.Post("", h.Note.Create)
	notes.Get("/summary", h.Note.Summary)
	notes.Get("/user/:userId", h.Note.ForUser)
	notes.Put("/:noteId", h.Note.Update)
	notes.Delete("/:noteId", h.Note.Delete)

	whatsapp := api.Group("/whatsapp", requireUser)
	whatsapp.Post("/send", h.WhatsApp.Send)
	whatsapp.Get("/send", h.WhatsApp.Status)

	admin := api.Group("/admin")
	admin.Post("/login", h.Admin.Login)
	admin.Post("/logout", requireAdmin, h.Admin.Logout)
	admin.Get("/dashboard", requireAdmin, h.Admin.Dashboard)
	admin.Get("/users", requireAdmin, h.Admin.ListUsers)
	admin.Patch("/users/:userId", requireAdmin, h.Admin.SetUserActive)
	admin.Delete("/users/:userId", requireAdmin, h.Admin.DeleteUser)
	admin.Post("/change-password", requireAdmin, h.Admin.ChangePassword)
}

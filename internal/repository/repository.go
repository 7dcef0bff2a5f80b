package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"chatdesk/internal/model"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-constraint violations.
	ErrDuplicate = errors.New("record already exists")
)

// Store is the persistence boundary. All reads and writes go through
// parameterized queries; referential integrity (cascade deletes) is owned
// by the schema, not by callers.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (model.User, error)
	ListActiveUsers(ctx context.Context, role *model.Role) ([]model.User, error)
	ListUsers(ctx context.Context, limit, offset int, role *model.Role) ([]model.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) (model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Groups
	CreateGroup(ctx context.Context, group model.Group) error
	GetGroupByID(ctx context.Context, id uuid.UUID) (model.Group, error)
	ListGroups(ctx context.Context) ([]model.GroupSummary, error)
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.GroupSummary, error)
	AddGroupMember(ctx context.Context, member model.GroupMember) error
	GetMembership(ctx context.Context, userID, groupID uuid.UUID) (model.GroupMember, error)
	GroupMembers(ctx context.Context, groupID uuid.UUID) ([]model.GroupMemberDetail, error)
	TouchGroup(ctx context.Context, groupID uuid.UUID) error

	// Messages
	CreateMessage(ctx context.Context, msg model.Message) error
	DirectMessages(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]model.MessageWithSender, error)
	GroupMessages(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]model.MessageWithSender, error)
	DirectMessagePartners(ctx context.Context, userID uuid.UUID) ([]model.ConversationPartner, error)
	ActiveUsersExcluding(ctx context.Context, exclude []uuid.UUID, role *model.Role) ([]model.User, error)

	// Private notes
	CreateNote(ctx context.Context, note model.PrivateNote) error
	GetNoteByID(ctx context.Context, id uuid.UUID) (model.PrivateNote, error)
	UpdateNote(ctx context.Context, id uuid.UUID, title, content string, tags []string) (model.PrivateNote, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
	NotesByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.NoteWithNames, error)
	NotesByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) ([]model.NoteWithNames, error)
	NotesAboutUser(ctx context.Context, userID uuid.UUID) ([]model.NoteWithNames, error)

	// Admin
	GetAdminByUsername(ctx context.Context, username string) (model.Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DashboardStats(ctx context.Context) (model.DashboardStats, error)

	Ping(ctx context.Context) error
}

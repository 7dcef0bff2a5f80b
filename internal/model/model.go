package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the trust level of a user account. Admins live in a separate
// table and are never represented as users.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAgent Role = "AGENT"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent
}

// Channel marks how a message entered the system. WHATSAPP_REDIRECT rows
// are link-generation artifacts and are excluded from every transcript view.
type Channel string

const (
	ChannelNormal           Channel = "NORMAL"
	ChannelWhatsAppRedirect Channel = "WHATSAPP_REDIRECT"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupSummary is a Group plus the aggregate counts shown in listings.
type GroupSummary struct {
	Group
	CreatorName  string `json:"creator_name"`
	CreatorRole  Role   `json:"creator_role"`
	MemberCount  int    `json:"member_count"`
	MessageCount int    `json:"message_count"`
}

type GroupMember struct {
	ID       uuid.UUID `json:"id"`
	GroupID  uuid.UUID `json:"group_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupMemberDetail joins membership with the member's user row.
type GroupMemberDetail struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Message is either a group message (GroupID set) or a direct message
// (ReceiverID set), never both. The schema enforces this with a CHECK
// constraint; application code treats the pointers as mutually exclusive.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	Content    string     `json:"content"`
	SenderID   uuid.UUID  `json:"sender_id"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	ReceiverID *uuid.UUID `json:"receiver_id,omitempty"`
	Channel    Channel    `json:"channel"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MessageWithSender is the read-side shape: a message joined with the
// sender fields the visibility filter and the UI need.
type MessageWithSender struct {
	Message
	SenderName string `json:"sender_name"`
	SenderRole Role   `json:"sender_role"`
}

type PrivateNote struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	AuthorID      uuid.UUID  `json:"author_id"`
	RelatedUserID *uuid.UUID `json:"related_user_id,omitempty"`
	Tags          []string   `json:"tags"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NoteWithNames decorates a note with display names for its author and
// the user it concerns.
type NoteWithNames struct {
	PrivateNote
	AuthorName      string `json:"author_name,omitempty"`
	RelatedUserName string `json:"related_user_name,omitempty"`
}

// Admin is a back-office account. Separate trust domain from User.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConversationPartner is one row of a user's inbox: the other participant
// of a direct-message thread and the most recent message exchanged, or a
// contact the user is eligible to message but has no history with
// (LastMessage nil).
type ConversationPartner struct {
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	Role        Role         `json:"role"`
	LastMessage *LastMessage `json:"last_message,omitempty"`
}

type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats are the admin aggregate counts. Always read live.
type DashboardStats struct {
	TotalUsers    int `json:"total_users"`
	TotalAgents   int `json:"total_agents"`
	PendingAgents int `json:"pending_agents"`
	TotalGroups   int `json:"total_groups"`
	TotalMessages int `json:"total_messages"`
	TotalNotes    int `json:"total_notes"`
}

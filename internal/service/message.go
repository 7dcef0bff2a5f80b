package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatdesk/internal/model"
	"chatdesk/internal/policy"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
)

// transcript page size, matching the reference behavior.
const (
	directMessageLimit = 50
	groupMessageLimit  = 100
)

type MessageService struct {
	store repository.Store
	log   *slog.Logger
}

func NewMessageService(store repository.Store, log *slog.Logger) *MessageService {
	return &MessageService{store: store, log: log}
}

// UserSummary is the participant snapshot attached to message payloads.
type UserSummary struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	Role     model.Role `json:"role"`
	IsActive bool       `json:"is_active"`
}

func summarize(u model.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

type SentDirectMessage struct {
	Message   model.Message `json:"message"`
	Sender    UserSummary   `json:"sender"`
	Recipient UserSummary   `json:"recipient"`
}

// SendDirect persists a direct message. The recipient must exist, be
// active, and be contact-eligible for the sender's role.
func (s *MessageService) SendDirect(ctx context.Context, actor session.Identity, recipientID uuid.UUID, content string) (SentDirectMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return SentDirectMessage{}, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	recipient, err := s.store.GetUserByID(ctx, recipientID)
	if err != nil {
		return SentDirectMessage{}, lookupErr(err, "recipient")
	}
	if !recipient.IsActive {
		return SentDirectMessage{}, fmt.Errorf("%w: recipient is not active", ErrInvalidInput)
	}
	if d := policy.CanDirectMessage(actor.Role, recipient.Role); !d.Allowed() {
		return SentDirectMessage{}, decisionErr(d)
	}

	sender, err := s.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		return SentDirectMessage{}, lookupErr(err, "sender")
	}

	now := time.Now().UTC()
	msg := model.Message{
		ID:         uuid.New(),
		Content:    content,
		SenderID:   actor.ID,
		ReceiverID: &recipientID,
		Channel:    model.ChannelNormal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return SentDirectMessage{}, fmt.Errorf("store message: %w", err)
	}

	s.log.Debug("direct message sent", "sender_id", actor.ID, "recipient_id", recipientID)
	return SentDirectMessage{
		Message:   msg,
		Sender:    summarize(sender),
		Recipient: summarize(recipient),
	}, nil
}

type DirectThread struct {
	OtherUser UserSummary               `json:"other_user"`
	Messages  []model.MessageWithSender `json:"messages"`
}

// ListDirect returns the thread between the actor and otherID. Only the
// two participants can reach a thread; redirect artifacts are filtered
// out of the transcript.
func (s *MessageService) ListDirect(ctx context.Context, actor session.Identity, otherID uuid.UUID) (DirectThread, error) {
	other, err := s.store.GetUserByID(ctx, otherID)
	if err != nil {
		return DirectThread{}, lookupErr(err, "user")
	}
	if d := policy.CanDirectMessage(actor.Role, other.Role); !d.Allowed() {
		return DirectThread{}, decisionErr(d)
	}

	msgs, err := s.store.DirectMessages(ctx, actor.ID, otherID, directMessageLimit, 0)
	if err != nil {
		return DirectThread{}, fmt.Errorf("load direct messages: %w", err)
	}

	return DirectThread{
		OtherUser: summarize(other),
		Messages:  policy.FilterDirectMessages(msgs),
	}, nil
}

// SendGroup persists a group message and bumps the group's freshness
// timestamp so inbox ordering follows activity.
func (s *MessageService) SendGroup(ctx context.Context, actor session.Identity, groupID uuid.UUID, content string) (model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	if _, err := s.store.GetGroupByID(ctx, groupID); err != nil {
		return model.Message{}, lookupErr(err, "group")
	}
	isMember, err := s.isMember(ctx, actor.ID, groupID)
	if err != nil {
		return model.Message{}, err
	}
	if d := policy.CanAccessGroup(actor.Role, isMember); !d.Allowed() {
		return model.Message{}, decisionErr(d)
	}

	now := time.Now().UTC()
	msg := model.Message{
		ID:        uuid.New(),
		Content:   content,
		SenderID:  actor.ID,
		GroupID:   &groupID,
		Channel:   model.ChannelNormal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return model.Message{}, fmt.Errorf("store message: %w", err)
	}
	if err := s.store.TouchGroup(ctx, groupID); err != nil {
		return model.Message{}, fmt.Errorf("touch group: %w", err)
	}

	s.log.Debug("group message sent", "sender_id", actor.ID, "group_id", groupID)
	return msg, nil
}

type GroupThread struct {
	Group    model.Group               `json:"group"`
	Members  []model.GroupMemberDetail `json:"members"`
	Messages []model.MessageWithSender `json:"messages"`
}

// ListGroup returns a group's transcript with the viewer's visibility
// rules applied. Agents read any group; users need a membership row.
func (s *MessageService) ListGroup(ctx context.Context, actor session.Identity, groupID uuid.UUID) (GroupThread, error) {
	group, err := s.store.GetGroupByID(ctx, groupID)
	if err != nil {
		return GroupThread{}, lookupErr(err, "group")
	}
	isMember, err := s.isMember(ctx, actor.ID, groupID)
	if err != nil {
		return GroupThread{}, err
	}
	if d := policy.CanAccessGroup(actor.Role, isMember); !d.Allowed() {
		return GroupThread{}, decisionErr(d)
	}

	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return GroupThread{}, fmt.Errorf("load members: %w", err)
	}
	msgs, err := s.store.GroupMessages(ctx, groupID, groupMessageLimit, 0)
	if err != nil {
		return GroupThread{}, fmt.Errorf("load group messages: %w", err)
	}

	return GroupThread{
		Group:    group,
		Members:  members,
		Messages: policy.FilterGroupMessages(actor.ID, actor.Role, msgs),
	}, nil
}

func (s *MessageService) isMember(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	_, err := s.store.GetMembership(ctx, userID, groupID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check membership: %w", err)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatdesk/internal/model"
	"chatdesk/internal/phone"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
)

// Structured per-recipient failure reasons for link generation.
const (
	ReasonNoPhoneNumber      = "no_phone_number"
	ReasonInvalidPhoneFormat = "invalid_phone_format"
)

// WhatsAppService generates wa.me deep links. Nothing is transmitted:
// "sending" is building a URL the caller opens by hand. Each generation
// leaves a WHATSAPP_REDIRECT message row behind as an audit artifact;
// the read-path channel filter keeps those rows out of every transcript.
type WhatsAppService struct {
	store       repository.Store
	countryCode string
	log         *slog.Logger
}

func NewWhatsAppService(store repository.Store, countryCode string, log *slog.Logger) *WhatsAppService {
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &WhatsAppService{store: store, countryCode: countryCode, log: log}
}

// Recipient is the outcome of link generation for one target.
type Recipient struct {
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Role        model.Role `json:"role"`
	WhatsAppURL string     `json:"whatsapp_url,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
}

type Delivery struct {
	Sent       int         `json:"sent"`
	Failed     int         `json:"failed"`
	Recipients []Recipient `json:"recipients"`
}

// GenerateDirect builds a link targeting one user's phone.
func (s *WhatsAppService) GenerateDirect(ctx context.Context, actor session.Identity, targetID uuid.UUID, message string) (Delivery, error) {
	if strings.TrimSpace(message) == "" {
		return Delivery{}, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	target, err := s.store.GetUserByID(ctx, targetID)
	if err != nil {
		return Delivery{}, lookupErr(err, "target user")
	}

	var delivery Delivery
	delivery.add(s.resolve(target, message))
	if err := s.recordRedirect(ctx, actor, message, &targetID, nil); err != nil {
		return Delivery{}, err
	}
	return delivery, nil
}

// GenerateGroup fans out over a group's members, targeting the opposite
// role of the sender: agents reach the group's users, users reach its
// agents.
func (s *WhatsAppService) GenerateGroup(ctx context.Context, actor session.Identity, groupID uuid.UUID, message string) (Delivery, error) {
	if strings.TrimSpace(message) == "" {
		return Delivery{}, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	if _, err := s.store.GetGroupByID(ctx, groupID); err != nil {
		return Delivery{}, lookupErr(err, "group")
	}
	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return Delivery{}, fmt.Errorf("load members: %w", err)
	}

	targetRole := model.RoleUser
	if actor.Role != model.RoleAgent {
		targetRole = model.RoleAgent
	}

	var delivery Delivery
	for _, member := range members {
		if member.Role != targetRole {
			continue
		}
		delivery.add(s.resolve(model.User{
			ID:    member.UserID,
			Name:  member.Name,
			Phone: member.Phone,
			Role:  member.Role,
		}, message))
	}

	if err := s.recordRedirect(ctx, actor, message, nil, &groupID); err != nil {
		return Delivery{}, err
	}
	s.log.Debug("whatsapp group links generated", "group_id", groupID, "sent", delivery.Sent, "failed", delivery.Failed)
	return delivery, nil
}

func (s *WhatsAppService) resolve(target model.User, message string) Recipient {
	r := Recipient{
		UserID: target.ID,
		Name:   target.Name,
		Phone:  target.Phone,
		Role:   target.Role,
	}
	if target.Phone == "" {
		r.Status = "failed"
		r.Error = ReasonNoPhoneNumber
		return r
	}

	link, err := phone.WhatsAppURLWithCountryCode(target.Phone, message, s.countryCode)
	if err != nil {
		r.Status = "failed"
		r.Error = ReasonInvalidPhoneFormat
		return r
	}
	r.Status = "ready"
	r.WhatsAppURL = link
	return r
}

func (d *Delivery) add(r Recipient) {
	d.Recipients = append(d.Recipients, r)
	if r.Status == "ready" {
		d.Sent++
	} else {
		d.Failed++
	}
}

// recordRedirect stores the redirect artifact on the synthetic channel.
func (s *WhatsAppService) recordRedirect(ctx context.Context, actor session.Identity, message string, receiverID, groupID *uuid.UUID) error {
	now := time.Now().UTC()
	msg := model.Message{
		ID:         uuid.New(),
		Content:    strings.TrimSpace(message),
		SenderID:   actor.ID,
		ReceiverID: receiverID,
		GroupID:    groupID,
		Channel:    model.ChannelWhatsAppRedirect,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("record redirect: %w", err)
	}
	return nil
}

// Status reports the integration's capabilities. Pure metadata.
func (s *WhatsAppService) Status() map[string]any {
	return map[string]any{
		"status":      "active",
		"integration": "whatsapp-redirect",
		"capabilities": []string{
			"direct-message-redirect",
			"group-message-urls",
			"phone-number-formatting",
			"url-generation",
		},
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"chatdesk/internal/model"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
)

// ConversationService builds the inbox view: every direct-message peer
// with history, plus every contact the actor could message but has not.
type ConversationService struct {
	store repository.Store
}

func NewConversationService(store repository.Store) *ConversationService {
	return &ConversationService{store: store}
}

// List merges the "has history" and "eligible contact" sets. Partners
// with history come first, newest thread first; contacts without history
// follow in name order. A partner present in both sets appears once, with
// its history.
func (s *ConversationService) List(ctx context.Context, actor session.Identity) ([]model.ConversationPartner, error) {
	partners, err := s.store.DirectMessagePartners(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load conversation partners: %w", err)
	}

	exclude := make([]uuid.UUID, 0, len(partners)+1)
	exclude = append(exclude, actor.ID)
	for _, p := range partners {
		exclude = append(exclude, p.UserID)
	}

	// Agents may contact any active account; users only active agents.
	var roleFilter *model.Role
	if actor.Role != model.RoleAgent {
		agent := model.RoleAgent
		roleFilter = &agent
	}

	contacts, err := s.store.ActiveUsersExcluding(ctx, exclude, roleFilter)
	if err != nil {
		return nil, fmt.Errorf("load eligible contacts: %w", err)
	}

	for _, c := range contacts {
		partners = append(partners, model.ConversationPartner{
			UserID: c.ID,
			Name:   c.Name,
			Role:   c.Role,
		})
	}
	return partners, nil
}

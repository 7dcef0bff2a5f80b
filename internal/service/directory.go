package service

import (
	"context"
	"fmt"

	"chatdesk/internal/model"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
)

// DirectoryService lists the accounts an actor is allowed to contact.
type DirectoryService struct {
	store repository.Store
}

func NewDirectoryService(store repository.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

// List returns active accounts visible to the actor: agents see
// everyone, users see only agents. Users never see phone numbers.
func (s *DirectoryService) List(ctx context.Context, actor session.Identity) ([]UserSummary, error) {
	var roleFilter *model.Role
	if actor.Role != model.RoleAgent {
		agent := model.RoleAgent
		roleFilter = &agent
	}

	users, err := s.store.ListActiveUsers(ctx, roleFilter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		if u.ID == actor.ID {
			continue
		}
		summary := summarize(u)
		if actor.Role != model.RoleAgent {
			summary.Phone = ""
		}
		out = append(out, summary)
	}
	return out, nil
}

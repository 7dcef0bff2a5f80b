package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chatdesk/internal/model"
	"chatdesk/internal/policy"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
	"chatdesk/internal/validator"
)

type GroupService struct {
	store    repository.Store
	validate *validator.Validator
	log      *slog.Logger
}

func NewGroupService(store repository.Store, validate *validator.Validator, log *slog.Logger) *GroupService {
	return &GroupService{store: store, validate: validate, log: log}
}

type CreateGroupRequest struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description string      `json:"description"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

// Create makes a new group. Agents only. The creator is always added as
// the first member; requested members follow, and unknown ids simply
// fail the whole call rather than being skipped silently.
func (s *GroupService) Create(ctx context.Context, actor session.Identity, req CreateGroupRequest) (model.Group, error) {
	if d := policy.CanCreateGroup(actor.Role); !d.Allowed() {
		return model.Group{}, decisionErr(d)
	}
	if err := s.validate.Validate(req); err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	group := model.Group{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return model.Group{}, fmt.Errorf("create group: %w", err)
	}

	if err := s.addMember(ctx, group.ID, actor.ID); err != nil {
		return model.Group{}, err
	}
	for _, memberID := range req.MemberIDs {
		if memberID == actor.ID {
			continue
		}
		if _, err := s.store.GetUserByID(ctx, memberID); err != nil {
			return model.Group{}, lookupErr(err, "member")
		}
		if err := s.addMember(ctx, group.ID, memberID); err != nil {
			return model.Group{}, err
		}
	}

	s.log.Info("group created", "group_id", group.ID, "created_by", actor.ID, "members", len(req.MemberIDs)+1)
	return group, nil
}

// AddMember puts a user into a group. Agents only.
func (s *GroupService) AddMember(ctx context.Context, actor session.Identity, groupID, userID uuid.UUID) error {
	if d := policy.CanCreateGroup(actor.Role); !d.Allowed() {
		return decisionErr(d)
	}
	if _, err := s.store.GetGroupByID(ctx, groupID); err != nil {
		return lookupErr(err, "group")
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return lookupErr(err, "user")
	}
	return s.addMember(ctx, groupID, userID)
}

func (s *GroupService) addMember(ctx context.Context, groupID, userID uuid.UUID) error {
	member := model.GroupMember{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.store.AddGroupMember(ctx, member); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// List returns the groups visible to the actor: all of them for agents,
// only memberships for users. Ordered by freshness (updated_at, which
// message sends bump).
func (s *GroupService) List(ctx context.Context, actor session.Identity) ([]model.GroupSummary, error) {
	if actor.Role == model.RoleAgent {
		groups, err := s.store.ListGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("list groups: %w", err)
		}
		return groups, nil
	}

	groups, err := s.store.ListGroupsForUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

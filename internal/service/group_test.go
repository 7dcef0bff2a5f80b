package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/model"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
	"chatdesk/internal/validator"
)

func groupService(store *mockStore) *GroupService {
	return NewGroupService(store, validator.New(), testLogger())
}

func TestCreateGroupUserForbidden(t *testing.T) {
	svc := groupService(new(mockStore))

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	_, err := svc.Create(context.Background(), actor, CreateGroupRequest{Name: "Support"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateGroupAddsCreatorFirst(t *testing.T) {
	store := new(mockStore)
	svc := groupService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	memberID := uuid.New()

	store.On("CreateGroup", mock.Anything, mock.MatchedBy(func(g model.Group) bool {
		return g.Name == "Support" && g.CreatedBy == actor.ID
	})).Return(nil)
	store.On("AddGroupMember", mock.Anything, mock.MatchedBy(func(m model.GroupMember) bool {
		return m.UserID == actor.ID
	})).Return(nil).Once()
	store.On("GetUserByID", mock.Anything, memberID).Return(model.User{ID: memberID, Role: model.RoleUser, IsActive: true}, nil)
	store.On("AddGroupMember", mock.Anything, mock.MatchedBy(func(m model.GroupMember) bool {
		return m.UserID == memberID
	})).Return(nil).Once()

	group, err := svc.Create(context.Background(), actor, CreateGroupRequest{
		Name:      "Support",
		MemberIDs: []uuid.UUID{memberID},
	})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, group.CreatedBy)
	store.AssertExpectations(t)
}

func TestCreateGroupSkipsCreatorInMemberList(t *testing.T) {
	store := new(mockStore)
	svc := groupService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}

	store.On("CreateGroup", mock.Anything, mock.Anything).Return(nil)
	store.On("AddGroupMember", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Create(context.Background(), actor, CreateGroupRequest{
		Name:      "Solo",
		MemberIDs: []uuid.UUID{actor.ID},
	})
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "AddGroupMember", 1)
}

func TestCreateGroupUnknownMemberFailsWhole(t *testing.T) {
	store := new(mockStore)
	svc := groupService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	ghost := uuid.New()

	store.On("CreateGroup", mock.Anything, mock.Anything).Return(nil)
	store.On("AddGroupMember", mock.Anything, mock.Anything).Return(nil).Once()
	store.On("GetUserByID", mock.Anything, ghost).Return(model.User{}, repository.ErrNotFound)

	_, err := svc.Create(context.Background(), actor, CreateGroupRequest{
		Name:      "Support",
		MemberIDs: []uuid.UUID{ghost},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddMemberUserForbidden(t *testing.T) {
	svc := groupService(new(mockStore))

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	err := svc.AddMember(context.Background(), actor, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListGroupsRoleScoped(t *testing.T) {
	t.Run("agent sees all groups", func(t *testing.T) {
		store := new(mockStore)
		svc := groupService(store)

		actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
		store.On("ListGroups", mock.Anything).Return([]model.GroupSummary{{}, {}}, nil)

		groups, err := svc.List(context.Background(), actor)
		require.NoError(t, err)
		assert.Len(t, groups, 2)
		store.AssertNotCalled(t, "ListGroupsForUser", mock.Anything, mock.Anything)
	})

	t.Run("user sees memberships only", func(t *testing.T) {
		store := new(mockStore)
		svc := groupService(store)

		actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
		store.On("ListGroupsForUser", mock.Anything, actor.ID).Return([]model.GroupSummary{{}}, nil)

		groups, err := svc.List(context.Background(), actor)
		require.NoError(t, err)
		assert.Len(t, groups, 1)
		store.AssertNotCalled(t, "ListGroups", mock.Anything)
	})
}

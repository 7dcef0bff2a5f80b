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
)

func TestSendDirectUserToAgent(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	agent := model.User{ID: uuid.New(), Name: "Agent Asha", Role: model.RoleAgent, IsActive: true}

	store.On("GetUserByID", mock.Anything, agent.ID).Return(agent, nil)
	store.On("GetUserByID", mock.Anything, actor.ID).Return(model.User{ID: actor.ID, Name: "Uma", Role: model.RoleUser, IsActive: true}, nil)
	store.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m model.Message) bool {
		return m.SenderID == actor.ID &&
			m.ReceiverID != nil && *m.ReceiverID == agent.ID &&
			m.GroupID == nil &&
			m.Channel == model.ChannelNormal
	})).Return(nil)

	sent, err := svc.SendDirect(context.Background(), actor, agent.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", sent.Message.Content)
	assert.Equal(t, agent.ID, sent.Recipient.ID)
	store.AssertExpectations(t)
}

func TestSendDirectUserToUserForbidden(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	other := model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
	store.On("GetUserByID", mock.Anything, other.ID).Return(other, nil)

	_, err := svc.SendDirect(context.Background(), actor, other.ID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
	store.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendDirectUnknownRecipient(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	ghost := uuid.New()
	store.On("GetUserByID", mock.Anything, ghost).Return(model.User{}, repository.ErrNotFound)

	_, err := svc.SendDirect(context.Background(), actor, ghost, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendDirectInactiveRecipient(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	pending := model.User{ID: uuid.New(), Role: model.RoleAgent, IsActive: false}
	store.On("GetUserByID", mock.Anything, pending.ID).Return(pending, nil)

	_, err := svc.SendDirect(context.Background(), actor, pending.ID, "hi")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSendDirectEmptyContent(t *testing.T) {
	svc := NewMessageService(new(mockStore), testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	_, err := svc.SendDirect(context.Background(), actor, uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListDirectFiltersRedirectArtifacts(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	agent := model.User{ID: uuid.New(), Role: model.RoleAgent, IsActive: true}
	store.On("GetUserByID", mock.Anything, agent.ID).Return(agent, nil)

	msgs := []model.MessageWithSender{
		{Message: model.Message{ID: uuid.New(), Content: "hello", SenderID: actor.ID, Channel: model.ChannelNormal}},
		{Message: model.Message{ID: uuid.New(), Content: "link artifact", SenderID: agent.ID, Channel: model.ChannelWhatsAppRedirect}},
		{Message: model.Message{ID: uuid.New(), Content: "welcome", SenderID: agent.ID, Channel: model.ChannelNormal}},
	}
	store.On("DirectMessages", mock.Anything, actor.ID, agent.ID, directMessageLimit, 0).Return(msgs, nil)

	thread, err := svc.ListDirect(context.Background(), actor, agent.ID)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 2)
	for _, m := range thread.Messages {
		assert.Equal(t, model.ChannelNormal, m.Channel)
	}
}

func TestSendGroupBumpsGroupFreshness(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	groupID := uuid.New()

	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{ID: groupID}, nil)
	store.On("GetMembership", mock.Anything, actor.ID, groupID).Return(model.GroupMember{UserID: actor.ID, GroupID: groupID}, nil)
	store.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m model.Message) bool {
		return m.GroupID != nil && *m.GroupID == groupID && m.ReceiverID == nil
	})).Return(nil)
	store.On("TouchGroup", mock.Anything, groupID).Return(nil)

	_, err := svc.SendGroup(context.Background(), actor, groupID, "hello group")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSendGroupNonMemberUserForbidden(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	groupID := uuid.New()

	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{ID: groupID}, nil)
	store.On("GetMembership", mock.Anything, actor.ID, groupID).Return(model.GroupMember{}, repository.ErrNotFound)

	_, err := svc.SendGroup(context.Background(), actor, groupID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListGroupAgentWithoutMembership(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	groupID := uuid.New()

	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{ID: groupID, Name: "Support"}, nil)
	store.On("GetMembership", mock.Anything, actor.ID, groupID).Return(model.GroupMember{}, repository.ErrNotFound)
	store.On("GroupMembers", mock.Anything, groupID).Return([]model.GroupMemberDetail{}, nil)
	store.On("GroupMessages", mock.Anything, groupID, groupMessageLimit, 0).Return([]model.MessageWithSender{}, nil)

	thread, err := svc.ListGroup(context.Background(), actor, groupID)
	require.NoError(t, err)
	assert.Equal(t, "Support", thread.Group.Name)
}

func TestListGroupUserVisibility(t *testing.T) {
	store := new(mockStore)
	svc := NewMessageService(store, testLogger())

	viewer := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	otherUser := uuid.New()
	agentID := uuid.New()
	groupID := uuid.New()

	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{ID: groupID}, nil)
	store.On("GetMembership", mock.Anything, viewer.ID, groupID).Return(model.GroupMember{}, nil)
	store.On("GroupMembers", mock.Anything, groupID).Return([]model.GroupMemberDetail{}, nil)
	store.On("GroupMessages", mock.Anything, groupID, groupMessageLimit, 0).Return([]model.MessageWithSender{
		{Message: model.Message{ID: uuid.New(), Content: "mine", SenderID: viewer.ID, Channel: model.ChannelNormal}, SenderRole: model.RoleUser},
		{Message: model.Message{ID: uuid.New(), Content: "other user", SenderID: otherUser, Channel: model.ChannelNormal}, SenderRole: model.RoleUser},
		{Message: model.Message{ID: uuid.New(), Content: "agent reply", SenderID: agentID, Channel: model.ChannelNormal}, SenderRole: model.RoleAgent},
	}, nil)

	thread, err := svc.ListGroup(context.Background(), viewer, groupID)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 2, "a user sees their own messages and agent messages only")
	assert.Equal(t, "mine", thread.Messages[0].Content)
	assert.Equal(t, "agent reply", thread.Messages[1].Content)
}

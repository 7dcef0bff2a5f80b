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

func whatsappService(store *mockStore) *WhatsAppService {
	return NewWhatsAppService(store, "91", testLogger())
}

func TestGenerateDirectLink(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	target := model.User{ID: uuid.New(), Name: "Uma", Phone: "9876543210", Role: model.RoleUser, IsActive: true}

	store.On("GetUserByID", mock.Anything, target.ID).Return(target, nil)
	store.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m model.Message) bool {
		return m.Channel == model.ChannelWhatsAppRedirect &&
			m.ReceiverID != nil && *m.ReceiverID == target.ID
	})).Return(nil)

	delivery, err := svc.GenerateDirect(context.Background(), actor, target.ID, "hi there")
	require.NoError(t, err)
	assert.Equal(t, 1, delivery.Sent)
	assert.Equal(t, 0, delivery.Failed)
	require.Len(t, delivery.Recipients, 1)
	assert.Equal(t, "https://wa.me/919876543210?text=hi%20there", delivery.Recipients[0].WhatsAppURL)
	assert.Equal(t, "ready", delivery.Recipients[0].Status)
	store.AssertExpectations(t)
}

func TestGenerateDirectNoPhone(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	target := model.User{ID: uuid.New(), Name: "Uma", Role: model.RoleUser, IsActive: true}

	store.On("GetUserByID", mock.Anything, target.ID).Return(target, nil)
	store.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	delivery, err := svc.GenerateDirect(context.Background(), actor, target.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, 0, delivery.Sent)
	assert.Equal(t, 1, delivery.Failed)
	assert.Equal(t, ReasonNoPhoneNumber, delivery.Recipients[0].Error)
	assert.Empty(t, delivery.Recipients[0].WhatsAppURL)
}

func TestGenerateDirectInvalidPhone(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	target := model.User{ID: uuid.New(), Name: "Uma", Phone: "123", Role: model.RoleUser}

	store.On("GetUserByID", mock.Anything, target.ID).Return(target, nil)
	store.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	delivery, err := svc.GenerateDirect(context.Background(), actor, target.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, ReasonInvalidPhoneFormat, delivery.Recipients[0].Error)
}

func TestGenerateDirectUnknownTarget(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	ghost := uuid.New()
	store.On("GetUserByID", mock.Anything, ghost).Return(model.User{}, repository.ErrNotFound)

	_, err := svc.GenerateDirect(context.Background(), session.Identity{ID: uuid.New(), Role: model.RoleAgent}, ghost, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateDirectEmptyMessage(t *testing.T) {
	svc := whatsappService(new(mockStore))

	_, err := svc.GenerateDirect(context.Background(), session.Identity{ID: uuid.New()}, uuid.New(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateGroupTargetsOppositeRole(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	groupID := uuid.New()

	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{ID: groupID}, nil)
	store.On("GroupMembers", mock.Anything, groupID).Return([]model.GroupMemberDetail{
		{UserID: actor.ID, Name: "Agent Asha", Role: model.RoleAgent, Phone: "9000000001"},
		{UserID: uuid.New(), Name: "Uma", Role: model.RoleUser, Phone: "9876543210"},
		{UserID: uuid.New(), Name: "Vik", Role: model.RoleUser},
	}, nil)
	store.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m model.Message) bool {
		return m.Channel == model.ChannelWhatsAppRedirect &&
			m.GroupID != nil && *m.GroupID == groupID
	})).Return(nil)

	delivery, err := svc.GenerateGroup(context.Background(), actor, groupID, "update")
	require.NoError(t, err)
	// Agents reach the users, never fellow agents.
	require.Len(t, delivery.Recipients, 2)
	assert.Equal(t, 1, delivery.Sent)
	assert.Equal(t, 1, delivery.Failed)
	assert.Equal(t, "Uma", delivery.Recipients[0].Name)
	assert.Equal(t, "https://wa.me/919876543210?text=update", delivery.Recipients[0].WhatsAppURL)
	assert.Equal(t, ReasonNoPhoneNumber, delivery.Recipients[1].Error)
	store.AssertExpectations(t)
}

func TestGenerateGroupUserReachesAgents(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	groupID := uuid.New()

	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{ID: groupID}, nil)
	store.On("GroupMembers", mock.Anything, groupID).Return([]model.GroupMemberDetail{
		{UserID: actor.ID, Name: "Uma", Role: model.RoleUser, Phone: "9876543210"},
		{UserID: uuid.New(), Name: "Agent Asha", Role: model.RoleAgent, Phone: "9000000001"},
	}, nil)
	store.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	delivery, err := svc.GenerateGroup(context.Background(), actor, groupID, "help")
	require.NoError(t, err)
	require.Len(t, delivery.Recipients, 1)
	assert.Equal(t, "Agent Asha", delivery.Recipients[0].Name)
}

func TestGenerateGroupUnknownGroup(t *testing.T) {
	store := new(mockStore)
	svc := whatsappService(store)

	groupID := uuid.New()
	store.On("GetGroupByID", mock.Anything, groupID).Return(model.Group{}, repository.ErrNotFound)

	_, err := svc.GenerateGroup(context.Background(), session.Identity{ID: uuid.New(), Role: model.RoleAgent}, groupID, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

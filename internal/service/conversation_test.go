package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/model"
	"chatdesk/internal/session"
)

func TestConversationListMergesHistoryAndContacts(t *testing.T) {
	store := new(mockStore)
	svc := NewConversationService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	partnerID := uuid.New()
	contactID := uuid.New()

	partners := []model.ConversationPartner{
		{
			UserID: partnerID,
			Name:   "Agent Asha",
			Role:   model.RoleAgent,
			LastMessage: &model.LastMessage{
				Content:   "ticket resolved",
				CreatedAt: time.Now().UTC(),
			},
		},
	}
	store.On("DirectMessagePartners", mock.Anything, actor.ID).Return(partners, nil)

	agent := model.RoleAgent
	store.On("ActiveUsersExcluding", mock.Anything, []uuid.UUID{actor.ID, partnerID}, &agent).
		Return([]model.User{{ID: contactID, Name: "Agent Bala", Role: model.RoleAgent}}, nil)

	list, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// History first, then unmessaged contacts with no preview.
	assert.Equal(t, partnerID, list[0].UserID)
	assert.NotNil(t, list[0].LastMessage)
	assert.Equal(t, contactID, list[1].UserID)
	assert.Nil(t, list[1].LastMessage)
}

func TestConversationListUserSeesOnlyAgents(t *testing.T) {
	store := new(mockStore)
	svc := NewConversationService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleUser}
	store.On("DirectMessagePartners", mock.Anything, actor.ID).Return([]model.ConversationPartner{}, nil)

	agent := model.RoleAgent
	store.On("ActiveUsersExcluding", mock.Anything, []uuid.UUID{actor.ID}, &agent).
		Return([]model.User{}, nil)

	_, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestConversationListAgentSeesEveryone(t *testing.T) {
	store := new(mockStore)
	svc := NewConversationService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	store.On("DirectMessagePartners", mock.Anything, actor.ID).Return([]model.ConversationPartner{}, nil)
	store.On("ActiveUsersExcluding", mock.Anything, []uuid.UUID{actor.ID}, (*model.Role)(nil)).
		Return([]model.User{
			{ID: uuid.New(), Name: "User Uma", Role: model.RoleUser},
			{ID: uuid.New(), Name: "Agent Asha", Role: model.RoleAgent},
		}, nil)

	list, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestConversationListPartnerNotDuplicated(t *testing.T) {
	store := new(mockStore)
	svc := NewConversationService(store)

	actor := session.Identity{ID: uuid.New(), Role: model.RoleAgent}
	partnerID := uuid.New()

	store.On("DirectMessagePartners", mock.Anything, actor.ID).Return([]model.ConversationPartner{
		{UserID: partnerID, Name: "User Uma", Role: model.RoleUser, LastMessage: &model.LastMessage{Content: "hi"}},
	}, nil)
	// The partner id is part of the exclusion set, so the store never
	// hands it back as an unmessaged contact.
	store.On("ActiveUsersExcluding", mock.Anything, []uuid.UUID{actor.ID, partnerID}, (*model.Role)(nil)).
		Return([]model.User{}, nil)

	list, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, partnerID, list[0].UserID)
	store.AssertExpectations(t)
}

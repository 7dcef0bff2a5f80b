package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"chatdesk/internal/model"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateUser(ctx context.Context, user model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockStore) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockStore) GetUserByPhone(ctx context.Context, phone string) (model.User, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockStore) ListActiveUsers(ctx context.Context, role *model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockStore) ListUsers(ctx context.Context, limit, offset int, role *model.Role) ([]model.User, error) {
	args := m.Called(ctx, limit, offset, role)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockStore) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (model.User, error) {
	args := m.Called(ctx, id, active)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) CreateGroup(ctx context.Context, group model.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *mockStore) GetGroupByID(ctx context.Context, id uuid.UUID) (model.Group, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Group), args.Error(1)
}

func (m *mockStore) ListGroups(ctx context.Context) ([]model.GroupSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.GroupSummary), args.Error(1)
}

func (m *mockStore) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.GroupSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.GroupSummary), args.Error(1)
}

func (m *mockStore) AddGroupMember(ctx context.Context, member model.GroupMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *mockStore) GetMembership(ctx context.Context, userID, groupID uuid.UUID) (model.GroupMember, error) {
	args := m.Called(ctx, userID, groupID)
	return args.Get(0).(model.GroupMember), args.Error(1)
}

func (m *mockStore) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]model.GroupMemberDetail, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]model.GroupMemberDetail), args.Error(1)
}

func (m *mockStore) TouchGroup(ctx context.Context, groupID uuid.UUID) error {
	return m.Called(ctx, groupID).Error(0)
}

func (m *mockStore) CreateMessage(ctx context.Context, msg model.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockStore) DirectMessages(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]model.MessageWithSender, error) {
	args := m.Called(ctx, userA, userB, limit, offset)
	return args.Get(0).([]model.MessageWithSender), args.Error(1)
}

func (m *mockStore) GroupMessages(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]model.MessageWithSender, error) {
	args := m.Called(ctx, groupID, limit, offset)
	return args.Get(0).([]model.MessageWithSender), args.Error(1)
}

func (m *mockStore) DirectMessagePartners(ctx context.Context, userID uuid.UUID) ([]model.ConversationPartner, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.ConversationPartner), args.Error(1)
}

func (m *mockStore) ActiveUsersExcluding(ctx context.Context, exclude []uuid.UUID, role *model.Role) ([]model.User, error) {
	args := m.Called(ctx, exclude, role)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockStore) CreateNote(ctx context.Context, note model.PrivateNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockStore) GetNoteByID(ctx context.Context, id uuid.UUID) (model.PrivateNote, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.PrivateNote), args.Error(1)
}

func (m *mockStore) UpdateNote(ctx context.Context, id uuid.UUID, title, content string, tags []string) (model.PrivateNote, error) {
	args := m.Called(ctx, id, title, content, tags)
	return args.Get(0).(model.PrivateNote), args.Error(1)
}

func (m *mockStore) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) NotesByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.NoteWithNames, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]model.NoteWithNames), args.Error(1)
}

func (m *mockStore) NotesByUserAndAgent(ctx context.Context, userID, agentID uuid.UUID) ([]model.NoteWithNames, error) {
	args := m.Called(ctx, userID, agentID)
	return args.Get(0).([]model.NoteWithNames), args.Error(1)
}

func (m *mockStore) NotesAboutUser(ctx context.Context, userID uuid.UUID) ([]model.NoteWithNames, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.NoteWithNames), args.Error(1)
}

func (m *mockStore) GetAdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Admin), args.Error(1)
}

func (m *mockStore) GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Admin), args.Error(1)
}

func (m *mockStore) UpdateAdminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockStore) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.DashboardStats), args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"chatdesk/internal/model"
	"chatdesk/internal/repository"
)

// adminSessions is the slice of the session store the service drives.
type adminSessions interface {
	Create(ctx context.Context, admin model.Admin) (string, error)
	Delete(ctx context.Context, token string) error
}

// AdminService backs the back office: session login, user moderation
// and dashboard counters. It is reachable only through the admin
// session middleware, never through user JWTs.
type AdminService struct {
	store    repository.Store
	sessions adminSessions
	log      *slog.Logger
}

func NewAdminService(store repository.Store, sessions adminSessions, log *slog.Logger) *AdminService {
	return &AdminService{store: store, sessions: sessions, log: log}
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResult struct {
	Token string      `json:"-"`
	Admin model.Admin `json:"admin"`
}

func (s *AdminService) Login(ctx context.Context, req AdminLoginRequest) (AdminLoginResult, error) {
	admin, err := s.store.GetAdminByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AdminLoginResult{}, ErrInvalidCredentials
		}
		return AdminLoginResult{}, fmt.Errorf("lookup admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return AdminLoginResult{}, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, admin)
	if err != nil {
		return AdminLoginResult{}, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("admin logged in", "admin_id", admin.ID, "username", admin.Username)
	admin.PasswordHash = ""
	return AdminLoginResult{Token: token, Admin: admin}, nil
}

func (s *AdminService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *AdminService) Stats(ctx context.Context) (model.DashboardStats, error) {
	stats, err := s.store.DashboardStats(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

const adminPageSize = 50

// ListUsers pages through all accounts, optionally filtered by role.
// Page numbers start at 1.
func (s *AdminService) ListUsers(ctx context.Context, page int, role *model.Role) ([]model.User, error) {
	if page < 1 {
		page = 1
	}
	users, err := s.store.ListUsers(ctx, adminPageSize, (page-1)*adminPageSize, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetUserActive toggles an account, including agent approval.
func (s *AdminService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (model.User, error) {
	user, err := s.store.SetUserActive(ctx, userID, active)
	if err != nil {
		return model.User{}, lookupErr(err, "user")
	}
	s.log.Info("user active flag changed", "user_id", userID, "active", active)
	return user, nil
}

// DeleteUser removes the account and everything hanging off it:
// memberships, messages both ways and notes about the user go with it.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return lookupErr(err, "user")
	}
	s.log.Info("user deleted", "user_id", userID)
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (s *AdminService) ChangePassword(ctx context.Context, adminID uuid.UUID, req ChangePasswordRequest) error {
	admin, err := s.store.GetAdminByID(ctx, adminID)
	if err != nil {
		return lookupErr(err, "admin")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateAdminPassword(ctx, adminID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("admin password changed", "admin_id", adminID)
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"chatdesk/internal/model"
	"chatdesk/internal/repository"
	"chatdesk/internal/session"
	"chatdesk/internal/validator"
)

type AuthService struct {
	store    repository.Store
	tokens   *session.TokenManager
	validate *validator.Validator
	log      *slog.Logger
}

func NewAuthService(store repository.Store, tokens *session.TokenManager, validate *validator.Validator, log *slog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		validate: validate,
		log:      log,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"dialable"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=USER AGENT user agent"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account. Users are active immediately; agents start
// inactive and wait for admin approval. Email and phone are both
// uniqueness keys.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	if err := s.validate.Validate(req); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	role := model.Role(strings.ToUpper(req.Role))
	if req.Role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return model.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return model.User{}, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("check email: %w", err)
	}
	if req.Phone != "" {
		if _, err := s.store.GetUserByPhone(ctx, req.Phone); err == nil {
			return model.User{}, ErrDuplicateAccount
		} else if !errors.Is(err, repository.ErrNotFound) {
			return model.User{}, fmt.Errorf("check phone: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     role != model.RoleAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrDuplicateAccount
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("account registered", "user_id", user.ID, "role", user.Role, "active", user.IsActive)
	return user, nil
}

// Login verifies credentials and issues a session token. The token embeds
// id, role, and phone at issuance time.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (model.User, string, error) {
	if err := s.validate.Validate(req); err != nil {
		return model.User{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.User{}, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return model.User{}, "", ErrAccountInactive
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return model.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("login", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

package service

import (
	"errors"
	"fmt"

	"chatdesk/internal/policy"
	"chatdesk/internal/repository"
)

// The error taxonomy every service operation resolves to. Authorization
// and validation failures are detected at the operation boundary and
// returned synchronously; store failures propagate wrapped, never
// retried.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
)

// decisionErr translates a policy decision into the service taxonomy.
func decisionErr(d policy.Decision) error {
	switch d {
	case policy.Allow:
		return nil
	case policy.Forbidden:
		return ErrForbidden
	case policy.NotFound:
		return ErrNotFound
	case policy.InvalidInput:
		return ErrInvalidInput
	default:
		return ErrForbidden
	}
}

// lookupErr maps a repository read error: missing rows become the
// taxonomy's NotFound, everything else is a store failure to surface.
func lookupErr(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

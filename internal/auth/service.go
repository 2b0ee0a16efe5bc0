package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/evcharger-search/evcharger-search/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates username/password credentials. Unknown users and
// wrong passwords both yield shared.ErrInvalidCredentials; any other error
// means the account store failed.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureDefaultAdmin creates the default admin account when password is set
// and the account does not exist yet. It reports whether a user was created.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	_, err := s.repo.FindByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return false, fmt.Errorf("auth: find default admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.repo.CreateUser(ctx, DefaultAdminUsername, string(hash)); err != nil {
		return false, fmt.Errorf("auth: create default admin: %w", err)
	}
	return true, nil
}

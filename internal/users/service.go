package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// GetOrCreateByEmail returns the account for email, creating an active one on
// first login. Emails are compared lower-cased.
func (s *Service) GetOrCreateByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, errors.New("email is required")
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if err := s.Repo.Create(ctx, User{ID: uuid.NewString(), Email: email, IsActive: true}); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return s.Repo.GetByEmail(ctx, email)
}

// GetActive loads a user and rejects deactivated accounts.
func (s *Service) GetActive(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if !user.IsActive {
		return User{}, ErrInactive
	}
	return user, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

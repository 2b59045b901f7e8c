package service

import (
	"context"
	"strings"
	"time"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// UserService implements profile reads and partial updates.
type UserService struct {
	users ports.UserRepository
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withoutUserHash(user), nil
}

// UpdateProfile merges the non-empty fields of in. A new email that belongs
// to another account is rejected with domain.ErrEmailTaken.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil && NormalizeEmail(*in.Email) != "" {
		email := NormalizeEmail(*in.Email)
		taken, err := s.users.EmailTakenByOther(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = email
	}
	if in.Address != nil && strings.TrimSpace(*in.Address) != "" {
		user.Address = strings.TrimSpace(*in.Address)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return withoutUserHash(user), nil
}

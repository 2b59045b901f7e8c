package ports

import (
	"context"

	"github.com/freshcart/storefront/internal/core/domain"
)

// SignupInput carries the fields required to open a customer account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// AuthService issues tokens for users and admins and resolves them back.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	AdminLogin(ctx context.Context, email, password string) (string, *domain.Admin, error)
	// Authenticate resolves a bearer token to a principal. Every failure is
	// reported as domain.ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// UpdateProfileInput is a partial update; nil fields are left untouched.
type UpdateProfileInput struct {
	Name    *string
	Email   *string
	Address *string
}

// UserService manages a customer's own profile.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
}

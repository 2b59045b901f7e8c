package ports

import (
	"context"

	"github.com/freshcart/storefront/internal/core/domain"
)

// UserRepository defines persistence for storefront customers.
type UserRepository interface {
	// Create returns domain.ErrUserExists when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// EmailTakenByOther reports whether email belongs to an account other than userID.
	EmailTakenByOther(ctx context.Context, email, userID string) (bool, error)
	// Update writes name, email and address. A unique-index collision on email
	// yields domain.ErrEmailTaken.
	Update(ctx context.Context, user *domain.User) error
}

// AdminRepository defines persistence for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	UpdateCredentials(ctx context.Context, id, name, passwordHash string) error
}

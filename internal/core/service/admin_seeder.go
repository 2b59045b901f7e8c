package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// AdminCredentials is the desired state of the bootstrap admin account.
type AdminCredentials struct {
	Email    string
	Password string
	Name     string
}

// EnsureAdmin reconciles the admin store with creds: the account is created
// when absent, otherwise its name and password are reset. Running it twice
// leaves a single admin. It returns true when a new account was created.
func EnsureAdmin(ctx context.Context, admins ports.AdminRepository, creds AdminCredentials, log zerolog.Logger) (bool, error) {
	email := NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return false, domain.Invalid("admin email and password are required")
	}
	name := strings.TrimSpace(creds.Name)
	if name == "" {
		name = "Admin User"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	existing, err := admins.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrAdminNotFound):
		created, err := admins.Create(ctx, &domain.Admin{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			return false, err
		}
		log.Info().Str("admin_id", created.ID).Str("email", email).Msg("admin account created")
		return true, nil
	case err != nil:
		return false, err
	}

	if err := admins.UpdateCredentials(ctx, existing.ID, name, string(hash)); err != nil {
		return false, err
	}
	log.Info().Str("admin_id", existing.ID).Str("email", email).Msg("admin credentials reconciled")
	return false, nil
}

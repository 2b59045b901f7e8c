package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshcart/storefront/internal/api/metrics"
	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// AuthService implements signup, login and bearer token resolution.
type AuthService struct {
	users  ports.UserRepository
	admins ports.AdminRepository
	tokens *TokenService
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, admins ports.AdminRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, admins: admins, tokens: tokens, log: log}
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	address := strings.TrimSpace(in.Address)
	if name == "" || email == "" || in.Password == "" || address == "" {
		return "", nil, domain.Invalid("All fields are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Address:      address,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.IssueForUser(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return token, withoutUserHash(user), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.Invalid("Email and password required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueForUser(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, withoutUserHash(user), nil
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.Invalid("Email and password required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAdminNotFound) {
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueForAdmin(admin.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("admin_id", admin.ID).Msg("admin logged in")
	return token, withoutAdminHash(admin), nil
}

// Authenticate resolves a bearer token. A bad token and a vanished principal
// both surface as domain.ErrUnauthorized; store failures pass through.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	kind, id, err := s.tokens.Parse(token)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, domain.ErrUnauthorized
	}

	switch kind {
	case domain.PrincipalUser:
		user, err := s.users.FindByID(ctx, id)
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("principal_missing").Inc()
			return nil, domain.ErrUnauthorized
		}
		if err != nil {
			return nil, err
		}
		return &domain.Principal{Kind: kind, User: withoutUserHash(user)}, nil

	default:
		admin, err := s.admins.FindByID(ctx, id)
		if errors.Is(err, domain.ErrAdminNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("principal_missing").Inc()
			return nil, domain.ErrUnauthorized
		}
		if err != nil {
			return nil, err
		}
		return &domain.Principal{Kind: kind, Admin: withoutAdminHash(admin)}, nil
	}
}

func withoutUserHash(u *domain.User) *domain.User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

func withoutAdminHash(a *domain.Admin) *domain.Admin {
	clone := *a
	clone.PasswordHash = ""
	return &clone
}

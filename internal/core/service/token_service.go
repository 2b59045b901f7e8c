package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freshcart/storefront/internal/core/domain"
)

// DefaultTokenTTL is how long a bearer token stays valid after issuance.
const DefaultTokenTTL = 7 * 24 * time.Hour

var errPrincipalClaim = errors.New("token must carry exactly one of userId or adminId")

// tokenClaims carries exactly one of UserID and AdminID; which one is set
// decides the principal kind.
type tokenClaims struct {
	UserID  string `json:"userId,omitempty"`
	AdminID string `json:"adminId,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueForUser returns a token that resolves to the user with id.
func (t *TokenService) IssueForUser(id string) (string, error) {
	return t.issue(tokenClaims{UserID: id}, id)
}

// IssueForAdmin returns a token that resolves to the admin with id.
func (t *TokenService) IssueForAdmin(id string) (string, error) {
	return t.issue(tokenClaims{AdminID: id}, id)
}

func (t *TokenService) issue(claims tokenClaims, subject string) (string, error) {
	now := t.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the signature and expiry and returns the principal kind and id.
func (t *TokenService) Parse(raw string) (domain.PrincipalKind, string, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", "", err
	}

	switch {
	case claims.UserID != "" && claims.AdminID == "":
		return domain.PrincipalUser, claims.UserID, nil
	case claims.AdminID != "" && claims.UserID == "":
		return domain.PrincipalAdmin, claims.AdminID, nil
	}
	return "", "", errPrincipalClaim
}

package domain

import "time"

// User is a storefront customer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Admin manages the catalog and orders. Admins authenticate separately from users.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PrincipalKind tells which collection a bearer token resolved against.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// Principal is the authenticated identity attached to a request. Exactly one
// of User and Admin is set, with its password hash cleared.
type Principal struct {
	Kind  PrincipalKind
	User  *User
	Admin *Admin
}

// ID returns the id of whichever identity the principal holds.
func (p *Principal) ID() string {
	switch {
	case p == nil:
		return ""
	case p.User != nil:
		return p.User.ID
	case p.Admin != nil:
		return p.Admin.ID
	}
	return ""
}

package user

import (
	"fmt"

	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// UserID identifies a user. It is a distinct type so user ids cannot be
// confused with car or booking ids.
type UserID int64

// Role determines a user's platform-wide permissions.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the account entity. Fields are immutable after construction.
type User struct {
	id           UserID
	name         string
	passwordHash string
	role         Role
}

// NewUser constructs a User, validating every property.
func NewUser(id UserID, name, passwordHash string, role Role) (*User, error) {
	if id <= 0 {
		return nil, domain.NewFieldValidationError("id", "must be a positive integer")
	}
	if name == "" {
		return nil, domain.NewFieldValidationError("name", "must not be empty")
	}
	if passwordHash == "" {
		return nil, domain.NewFieldValidationError("passwordHash", "must not be empty")
	}
	if !role.IsValid() {
		return nil, domain.NewFieldValidationError("role", fmt.Sprintf("unrecognized role: %s", role))
	}
	return &User{id: id, name: name, passwordHash: passwordHash, role: role}, nil
}

// ID returns the user's identifier.
func (u *User) ID() UserID { return u.id }

// Name returns the user's unique name.
func (u *User) Name() string { return u.name }

// PasswordHash returns the bcrypt hash of the user's password.
func (u *User) PasswordHash() string { return u.passwordHash }

// Role returns the user's role.
func (u *User) Role() Role { return u.role }

package domain

import (
	"errors"
	"time"
)

// Role is the closed set of roles an account can hold.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailTaken = errors.New("email already in use")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidRole = errors.New("invalid role")
var ErrPasswordMismatch = errors.New("current password is incorrect")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// User models a stored account. The password hash never leaves the backend:
// it is excluded from JSON and stripped from every response mapper.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated identity attached to a request, as decoded from
// the access token. Services receive it explicitly; they never reach into
// transport state.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

package ports

import (
	"context"

	"github.com/conectar/admin-api/internal/core/domain"
)

type CreateUserInput struct {
	Name        string
	Email       string
	RawPassword string
	Role        domain.Role
}

// UpdateUserInput carries optional field updates; nil means "leave as is".
type UpdateUserInput struct {
	ID          string
	Name        *string
	Email       *string
	RawPassword *string
	Role        *domain.Role
}

type UserPage struct {
	Users      []domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) (*UserPage, error)
	// Get returns the account. A non-admin actor may only fetch their own
	// record; anything else is domain.ErrForbidden.
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	// Update applies field changes. Non-admin actors may only touch their own
	// record and may never supply a role change.
	Update(ctx context.Context, actor domain.Actor, in UpdateUserInput) (*domain.User, error)
	// Delete removes an account. Deleting the acting account is refused with
	// domain.ErrForbidden regardless of role.
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ProfileUpdateInput is the self-service profile change set. CurrentPassword
// must verify against the stored hash before anything is applied.
type ProfileUpdateInput struct {
	CurrentPassword string
	Name            *string
	Email           *string
	NewPassword     *string
}

type ProfileService interface {
	Update(ctx context.Context, userID string, in ProfileUpdateInput) (*domain.User, error)
}

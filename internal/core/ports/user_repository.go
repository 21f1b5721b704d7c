package ports

import (
	"context"

	"github.com/conectar/admin-api/internal/core/domain"
)

// ListUsersFilter narrows and pages a user listing. Search matches name or
// email case-insensitively; OrderBy accepts "name" or "createdAt".
type ListUsersFilter struct {
	Role    domain.Role
	Search  string
	OrderBy string
	Order   string
	Page    int
	Limit   int
}

// UserRepository is the persistence boundary for accounts. Email uniqueness
// is ultimately enforced by the store's unique index: Create and Update must
// map its duplicate-key failure to domain.ErrEmailTaken, so a race between
// two concurrent registrations resolves to exactly one success.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRole(ctx context.Context, role domain.Role) (bool, error)
	List(ctx context.Context, filter ListUsersFilter) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

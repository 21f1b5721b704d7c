package ports

import (
	"context"

	"github.com/conectar/admin-api/internal/core/domain"
)

// ListClientsFilter narrows and pages a client listing. ViewerID, when
// non-empty, restricts results to clients where the viewer is the
// admin-owner or a member; repositories apply it inside the query so
// unauthorized rows are never fetched.
type ListClientsFilter struct {
	ViewerID     string
	Search       string
	Status       domain.ClientStatus
	ConectarPlus *bool
	OrderBy      string
	Order        string
	Page         int
	Limit        int
}

// ClientRepository is the persistence boundary for client (tenant) records.
// FindByID takes the same viewer scoping as listing: a scoped lookup that
// matches nothing yields domain.ErrClientNotFound, revealing nothing about
// records the viewer has no right to see.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id, viewerID string) (*domain.Client, error)
	ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	List(ctx context.Context, filter ListClientsFilter) ([]domain.Client, int64, error)
	Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	AddUser(ctx context.Context, clientID, userID string) error
	RemoveUser(ctx context.Context, clientID, userID string) error
}

package ports

import (
	"context"

	"github.com/conectar/admin-api/internal/core/domain"
)

type CreateClientInput struct {
	CorporateReason string
	CNPJ            string
	Name            string
	Status          domain.ClientStatus
	ConectarPlus    bool
	AdminUserID     string
}

type UpdateClientInput struct {
	ID              string
	CorporateReason *string
	CNPJ            *string
	Name            *string
	Status          *domain.ClientStatus
	ConectarPlus    *bool
}

type ClientPage struct {
	Clients    []domain.Client
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserOption is the lightweight user projection used to populate dropdowns.
type UserOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	List(ctx context.Context, actor domain.Actor, filter ListClientsFilter) (*ClientPage, error)
	// Get returns a client. For non-admin actors the lookup is scoped to
	// clients they own or belong to; anything else is domain.ErrClientNotFound.
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error)
	Update(ctx context.Context, actor domain.Actor, in UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	AddUser(ctx context.Context, actor domain.Actor, clientID, userID string) error
	RemoveUser(ctx context.Context, actor domain.Actor, clientID, userID string) error
	UserOptions(ctx context.Context, filter ListUsersFilter) ([]UserOption, error)
}

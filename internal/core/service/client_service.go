package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

// ClientService implements client (tenant) administration. Visibility for
// non-admin actors is scoped inside the repository query: records the actor
// neither owns nor belongs to are never fetched, so an unrelated lookup is a
// plain not-found and reveals nothing.
type ClientService struct {
	clients ports.ClientRepository
	users   ports.UserRepository
	audit   ports.AuditSink
	log     zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, users: users, audit: audit, log: log}
}

func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	exists, err := s.clients.ExistsByCNPJ(ctx, in.CNPJ)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	if exists {
		return nil, domain.ErrCNPJTaken
	}

	owner, err := s.users.FindByID(ctx, in.AdminUserID)
	if err != nil {
		return nil, err
	}
	if owner.Role != domain.RoleAdmin {
		return nil, domain.ErrOwnerNotAdmin
	}

	status := in.Status
	if status == "" {
		status = domain.ClientActive
	}

	now := time.Now().UTC()
	created, err := s.clients.Create(ctx, &domain.Client{
		CorporateReason: in.CorporateReason,
		CNPJ:            in.CNPJ,
		Name:            in.Name,
		Status:          status,
		ConectarPlus:    in.ConectarPlus,
		AdminUserID:     owner.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", created.ID).Str("admin_user_id", owner.ID).Msg("client created")
	return created, nil
}

func (s *ClientService) List(ctx context.Context, actor domain.Actor, filter ports.ListClientsFilter) (*ports.ClientPage, error) {
	filter.ViewerID = viewerScope(actor)
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = defaultPageLimit
	}

	clients, total, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return &ports.ClientPage{
		Clients:    clients,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *ClientService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id, viewerScope(actor))
}

func (s *ClientService) Update(ctx context.Context, actor domain.Actor, in ports.UpdateClientInput) (*domain.Client, error) {
	// Same scoping as Get: an unrelated client is not-found, not forbidden.
	client, err := s.clients.FindByID(ctx, in.ID, viewerScope(actor))
	if err != nil {
		return nil, err
	}

	if in.CNPJ != nil && *in.CNPJ != client.CNPJ {
		exists, err := s.clients.ExistsByCNPJ(ctx, *in.CNPJ)
		if err != nil {
			return nil, fmt.Errorf("update client: %w", err)
		}
		if exists {
			return nil, domain.ErrCNPJTaken
		}
		client.CNPJ = *in.CNPJ
	}
	if in.CorporateReason != nil {
		client.CorporateReason = *in.CorporateReason
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Status != nil {
		client.Status = *in.Status
	}
	if in.ConectarPlus != nil {
		client.ConectarPlus = *in.ConectarPlus
	}
	client.UpdatedAt = time.Now().UTC()

	return s.clients.Update(ctx, client)
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	// Admin-only operation; no viewer scoping.
	if _, err := s.clients.FindByID(ctx, id, ""); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id)
}

func (s *ClientService) AddUser(ctx context.Context, actor domain.Actor, clientID, userID string) error {
	client, err := s.clients.FindByID(ctx, clientID, "")
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if client.HasMember(user.ID) {
		return domain.ErrAlreadyMember
	}

	if err := s.clients.AddUser(ctx, client.ID, user.ID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditMemberAdded,
		SubjectID:  user.ID,
		ActorID:    actor.ID,
		Detail:     client.ID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *ClientService) RemoveUser(ctx context.Context, actor domain.Actor, clientID, userID string) error {
	client, err := s.clients.FindByID(ctx, clientID, "")
	if err != nil {
		return err
	}
	if client.AdminUserID == userID {
		return domain.ErrClientOwner
	}

	if err := s.clients.RemoveUser(ctx, client.ID, userID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditMemberRemoved,
		SubjectID:  userID,
		ActorID:    actor.ID,
		Detail:     client.ID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// UserOptions returns a lightweight id/name listing for admin dropdowns,
// ordered by name.
func (s *ClientService) UserOptions(ctx context.Context, filter ports.ListUsersFilter) ([]ports.UserOption, error) {
	if filter.Role == "" {
		filter.Role = domain.RoleAdmin
	}
	filter.OrderBy = "name"
	filter.Order = "asc"
	filter.Page = 1
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}

	users, _, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("user options: %w", err)
	}

	options := make([]ports.UserOption, len(users))
	for i, u := range users {
		options[i] = ports.UserOption{ID: u.ID, Name: u.Name}
	}
	return options, nil
}

// viewerScope returns the repository scoping id for an actor: empty for
// admins (no restriction), the actor id otherwise.
func viewerScope(actor domain.Actor) string {
	if actor.IsAdmin() {
		return ""
	}
	return actor.ID
}

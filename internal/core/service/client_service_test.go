package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

// stubClientRepo is an in-memory ClientRepository honoring viewer scoping the
// same way the mongo implementation does: scoped lookups that match nothing
// report not-found.
type stubClientRepo struct {
	mu      sync.Mutex
	clients map[string]*domain.Client
	next    int
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func cloneClient(c *domain.Client) *domain.Client {
	if c == nil {
		return nil
	}
	clone := *c
	clone.UserIDs = append([]string(nil), c.UserIDs...)
	return &clone
}

func visibleTo(c *domain.Client, viewerID string) bool {
	return viewerID == "" || c.AdminUserID == viewerID || c.HasMember(viewerID)
}

func (r *stubClientRepo) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.CNPJ == client.CNPJ {
			return nil, domain.ErrCNPJTaken
		}
	}
	copy := cloneClient(client)
	r.next++
	copy.ID = fmt.Sprintf("client-%d", r.next)
	r.clients[copy.ID] = cloneClient(copy)
	return cloneClient(copy), nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id, viewerID string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok || !visibleTo(c, viewerID) {
		return nil, domain.ErrClientNotFound
	}
	return cloneClient(c), nil
}

func (r *stubClientRepo) ExistsByCNPJ(_ context.Context, cnpj string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.CNPJ == cnpj {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubClientRepo) List(_ context.Context, filter ports.ListClientsFilter) ([]domain.Client, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Client
	for _, c := range r.clients {
		if !visibleTo(c, filter.ViewerID) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *cloneClient(c))
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, client *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; !ok {
		return nil, domain.ErrClientNotFound
	}
	r.clients[client.ID] = cloneClient(client)
	return cloneClient(client), nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) AddUser(_ context.Context, clientID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.UserIDs = append(c.UserIDs, userID)
	return nil
}

func (r *stubClientRepo) RemoveUser(_ context.Context, clientID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok {
		return domain.ErrClientNotFound
	}
	kept := c.UserIDs[:0]
	for _, id := range c.UserIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	c.UserIDs = kept
	return nil
}

type clientFixture struct {
	svc    *ClientService
	users  *stubUserRepo
	repo   *stubClientRepo
	owner  *domain.User
	member *domain.User
	other  *domain.User
	client *domain.Client
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()
	users := newStubUserRepo()
	repo := newStubClientRepo()
	svc := NewClientService(repo, users, &captureAudit{}, zerolog.Nop())

	owner := seedUser(t, users, "Owner", "owner@example.com", domain.RoleAdmin)
	member := seedUser(t, users, "Member", "member@example.com", domain.RoleUser)
	other := seedUser(t, users, "Other", "other@example.com", domain.RoleUser)

	client, err := svc.Create(context.Background(), ports.CreateClientInput{
		CorporateReason: "Acme LTDA",
		CNPJ:            "12.345.678/0001-90",
		Name:            "Acme",
		AdminUserID:     owner.ID,
	})
	if err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	admin := domain.Actor{ID: owner.ID, Role: domain.RoleAdmin}
	if err := svc.AddUser(context.Background(), admin, client.ID, member.ID); err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	return &clientFixture{svc: svc, users: users, repo: repo, owner: owner, member: member, other: other, client: client}
}

func TestClientService_Create_DefaultsToActive(t *testing.T) {
	f := newClientFixture(t)
	if f.client.Status != domain.ClientActive {
		t.Fatalf("expected active status, got %s", f.client.Status)
	}
}

func TestClientService_Create_DuplicateCNPJ(t *testing.T) {
	f := newClientFixture(t)
	_, err := f.svc.Create(context.Background(), ports.CreateClientInput{
		CorporateReason: "Clone LTDA",
		CNPJ:            "12.345.678/0001-90",
		Name:            "Clone",
		AdminUserID:     f.owner.ID,
	})
	if !errors.Is(err, domain.ErrCNPJTaken) {
		t.Fatalf("expected ErrCNPJTaken, got %v", err)
	}
}

func TestClientService_Create_OwnerMustBeAdmin(t *testing.T) {
	f := newClientFixture(t)
	_, err := f.svc.Create(context.Background(), ports.CreateClientInput{
		CorporateReason: "Beta LTDA",
		CNPJ:            "98.765.432/0001-10",
		Name:            "Beta",
		AdminUserID:     f.member.ID,
	})
	if !errors.Is(err, domain.ErrOwnerNotAdmin) {
		t.Fatalf("expected ErrOwnerNotAdmin, got %v", err)
	}

	_, err = f.svc.Create(context.Background(), ports.CreateClientInput{
		CorporateReason: "Gamma LTDA",
		CNPJ:            "11.222.333/0001-44",
		Name:            "Gamma",
		AdminUserID:     "ghost",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestClientService_Get_OwnershipScoping(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	for _, actor := range []domain.Actor{
		{ID: f.owner.ID, Role: domain.RoleAdmin},
		{ID: f.member.ID, Role: domain.RoleUser},
	} {
		if _, err := f.svc.Get(ctx, actor, f.client.ID); err != nil {
			t.Fatalf("related actor %s denied: %v", actor.ID, err)
		}
	}

	// Unrelated users get not-found, never forbidden: existence is not
	// revealed.
	unrelated := domain.Actor{ID: f.other.ID, Role: domain.RoleUser}
	if _, err := f.svc.Get(ctx, unrelated, f.client.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound for unrelated user, got %v", err)
	}
}

func TestClientService_List_Scoping(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	// Second client unrelated to f.member.
	if _, err := f.svc.Create(ctx, ports.CreateClientInput{
		CorporateReason: "Beta LTDA",
		CNPJ:            "98.765.432/0001-10",
		Name:            "Beta",
		AdminUserID:     f.owner.ID,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	admin := domain.Actor{ID: "admin-x", Role: domain.RoleAdmin}
	all, err := f.svc.List(ctx, admin, ports.ListClientsFilter{})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("admin should see all clients, got %d", all.Total)
	}

	member := domain.Actor{ID: f.member.ID, Role: domain.RoleUser}
	mine, err := f.svc.List(ctx, member, ports.ListClientsFilter{})
	if err != nil {
		t.Fatalf("member list failed: %v", err)
	}
	if mine.Total != 1 || mine.Clients[0].ID != f.client.ID {
		t.Fatalf("member should only see related clients: %+v", mine)
	}
}

func TestClientService_Update_ScopedAndCNPJChecked(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	member := domain.Actor{ID: f.member.ID, Role: domain.RoleUser}
	name := "Acme Renamed"
	updated, err := f.svc.Update(ctx, member, ports.UpdateClientInput{ID: f.client.ID, Name: &name})
	if err != nil {
		t.Fatalf("member update failed: %v", err)
	}
	if updated.Name != "Acme Renamed" {
		t.Fatalf("update not applied: %+v", updated)
	}

	unrelated := domain.Actor{ID: f.other.ID, Role: domain.RoleUser}
	if _, err := f.svc.Update(ctx, unrelated, ports.UpdateClientInput{ID: f.client.ID, Name: &name}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound for unrelated update, got %v", err)
	}

	if _, err := f.svc.Create(ctx, ports.CreateClientInput{
		CorporateReason: "Beta LTDA",
		CNPJ:            "98.765.432/0001-10",
		Name:            "Beta",
		AdminUserID:     f.owner.ID,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	taken := "98.765.432/0001-10"
	admin := domain.Actor{ID: f.owner.ID, Role: domain.RoleAdmin}
	if _, err := f.svc.Update(ctx, admin, ports.UpdateClientInput{ID: f.client.ID, CNPJ: &taken}); !errors.Is(err, domain.ErrCNPJTaken) {
		t.Fatalf("expected ErrCNPJTaken, got %v", err)
	}
}

func TestClientService_AddUser_Duplicate(t *testing.T) {
	f := newClientFixture(t)
	admin := domain.Actor{ID: f.owner.ID, Role: domain.RoleAdmin}
	err := f.svc.AddUser(context.Background(), admin, f.client.ID, f.member.ID)
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestClientService_RemoveUser_OwnerGuard(t *testing.T) {
	f := newClientFixture(t)
	admin := domain.Actor{ID: f.owner.ID, Role: domain.RoleAdmin}
	ctx := context.Background()

	if err := f.svc.RemoveUser(ctx, admin, f.client.ID, f.owner.ID); !errors.Is(err, domain.ErrClientOwner) {
		t.Fatalf("expected ErrClientOwner, got %v", err)
	}

	if err := f.svc.RemoveUser(ctx, admin, f.client.ID, f.member.ID); err != nil {
		t.Fatalf("remove member failed: %v", err)
	}
	got, err := f.repo.FindByID(ctx, f.client.ID, "")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.HasMember(f.member.ID) {
		t.Fatalf("member still present after removal")
	}
}

func TestClientService_UserOptions(t *testing.T) {
	f := newClientFixture(t)
	options, err := f.svc.UserOptions(context.Background(), ports.ListUsersFilter{})
	if err != nil {
		t.Fatalf("user options failed: %v", err)
	}
	// Defaults to admins only.
	if len(options) != 1 || options[0].ID != f.owner.ID {
		t.Fatalf("unexpected options: %+v", options)
	}
	if options[0].Name != "Owner" {
		t.Fatalf("unexpected option name: %+v", options[0])
	}
}

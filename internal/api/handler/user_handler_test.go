package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

type stubUserService struct {
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	listFn   func(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserPage, error)
	getFn    func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	updateFn func(ctx context.Context, actor domain.Actor, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, actor domain.Actor, id string) error
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserPage, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) Update(ctx context.Context, actor domain.Actor, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, in)
}

func (s *stubUserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func asActor(c echo.Context, id string, role domain.Role) {
	c.Set("sub", id)
	c.Set("role", string(role))
}

func TestUserHandler_Create_PassesRoleThrough(t *testing.T) {
	var got ports.CreateUserInput
	h := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: "user-2", Name: in.Name, Email: in.Email, Role: in.Role}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/users",
		`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"admin"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role passed through, got %q", got.Role)
	}
}

func TestUserHandler_Create_RejectsUnknownRole(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/users",
		`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"superuser"}`)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_List_ForwardsFilters(t *testing.T) {
	var got ports.ListUsersFilter
	h := NewUserHandler(&stubUserService{
		listFn: func(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserPage, error) {
			got = filter
			return &ports.UserPage{Users: []domain.User{}, Page: 2, Limit: 10}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet, "/users?role=admin&search=ali&orderBy=name&order=asc&page=2&limit=10", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Role != domain.RoleAdmin || got.Search != "ali" || got.OrderBy != "name" {
		t.Fatalf("filters not forwarded: %+v", got)
	}
	if got.Page != 2 || got.Limit != 10 {
		t.Fatalf("paging not forwarded: %+v", got)
	}

	var resp listUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data == nil {
		t.Fatalf("expected empty data array, got null")
	}
}

func TestUserHandler_Get_RequiresClaims(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		getFn: func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodGet, "/users/user-1", "")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_Get_PassesActor(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		getFn: func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
			if actor.ID != "user-1" || actor.Role != domain.RoleUser {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if id != "user-9" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &domain.User{ID: id}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet, "/users/user-9", "")
	c.SetParamNames("id")
	c.SetParamValues("user-9")
	asActor(c, "user-1", domain.RoleUser)

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_MapsOptionalFields(t *testing.T) {
	var got ports.UpdateUserInput
	h := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, actor domain.Actor, in ports.UpdateUserInput) (*domain.User, error) {
			got = in
			return &domain.User{ID: in.ID}, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPatch, "/users/user-9", `{"name":"New Name","role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("user-9")
	asActor(c, "admin-1", domain.RoleAdmin)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.ID != "user-9" {
		t.Fatalf("unexpected id: %s", got.ID)
	}
	if got.Name == nil || *got.Name != "New Name" {
		t.Fatalf("name not mapped: %+v", got.Name)
	}
	if got.Role == nil || *got.Role != domain.RoleAdmin {
		t.Fatalf("role not mapped: %+v", got.Role)
	}
	if got.Email != nil || got.RawPassword != nil {
		t.Fatalf("absent fields should stay nil")
	}
}

func TestUserHandler_Delete_NoContent(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		deleteFn: func(ctx context.Context, actor domain.Actor, id string) error {
			return nil
		},
	})

	c, rec := newTestContext(t, http.MethodDelete, "/users/user-9", "")
	c.SetParamNames("id")
	c.SetParamValues("user-9")
	asActor(c, "admin-1", domain.RoleAdmin)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_SelfForbidden(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		deleteFn: func(ctx context.Context, actor domain.Actor, id string) error {
			return domain.ErrForbidden
		},
	})

	c, _ := newTestContext(t, http.MethodDelete, "/users/admin-1", "")
	c.SetParamNames("id")
	c.SetParamValues("admin-1")
	asActor(c, "admin-1", domain.RoleAdmin)

	if err := h.Delete(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

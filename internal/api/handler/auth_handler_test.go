package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, rawPassword string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, rawPassword string) (*ports.TokenPair, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, rawPassword string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, rawPassword)
}

func (s *stubAuthService) Login(ctx context.Context, email, rawPassword string) (*ports.TokenPair, error) {
	return s.loginFn(ctx, email, rawPassword)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, rawPassword string) (*domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || rawPassword != "secret1" {
				t.Fatalf("unexpected args: %s %s", name, email)
			}
			return &domain.User{ID: "user-1", Name: name, Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, name, email, rawPassword string) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"not-an-email","password":"secret1"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, name, email, rawPassword string) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"abc"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, name, email, rawPassword string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Bob","email":"bob@example.com","password":"secret1"}`)

	if err := h.Register(c); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, rawPassword string) (*ports.TokenPair, error) {
			return &ports.TokenPair{
				AccessToken:  "access.jwt",
				RefreshToken: "refresh.jwt",
				ExpiresIn:    900,
			}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "access.jwt" || resp.RefreshToken != "refresh.jwt" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if resp.ExpiresIn != 900 {
		t.Fatalf("expected expiresIn 900, got %d", resp.ExpiresIn)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("expected Bearer token type, got %q", resp.TokenType)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, rawPassword string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong-pass"}`)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_BadPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, rawPassword string) (*ports.TokenPair, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":42}`)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

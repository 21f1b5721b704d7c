package ports

import (
	"context"

	"github.com/conectar/admin-api/internal/core/domain"
)

// TokenPair is the result of a successful login. ExpiresIn is the remaining
// lifetime of the access token in whole seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type AuthService interface {
	// Register creates a self-service account. The role is always
	// domain.RoleUser; elevated accounts come from UserService.Create.
	Register(ctx context.Context, name, email, rawPassword string) (*domain.User, error)
	// Login verifies credentials and issues an access/refresh token pair.
	// Unknown email and wrong password fail identically with
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, rawPassword string) (*TokenPair, error)
}

// LoginGuard throttles repeated credential failures per login handle.
// Implementations are consulted before any credential work; errors from the
// guard itself must not block logins (the service fails open and logs).
type LoginGuard interface {
	TooManyFailures(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

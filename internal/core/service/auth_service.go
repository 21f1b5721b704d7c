package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
	"github.com/conectar/admin-api/internal/pkg/password"
	"github.com/conectar/admin-api/internal/pkg/token"
)

// refreshTTL is fixed; only the access TTL is configurable.
const refreshTTL = 7 * 24 * time.Hour

// fallbackExpiresIn is returned when the access token's expiry cannot be
// read back, in seconds.
const fallbackExpiresIn = 900

// TokenConfig carries the signing material and access-token lifetime,
// resolved once at startup.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
}

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	guard  ports.LoginGuard
	audit  ports.AuditSink
	tokens TokenConfig
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, guard ports.LoginGuard, audit ports.AuditSink, tokens TokenConfig, log zerolog.Logger) *AuthService {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = 15 * time.Minute
	}
	return &AuthService{users: users, guard: guard, audit: audit, tokens: tokens, log: log}
}

// Register creates a self-service account. The role is always user:
// anonymous callers never choose their own role, elevated accounts come only
// from the admin-only user-creation operation.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*domain.User, error) {
	// Existence pre-check is an optimization for a clean error; the unique
	// index on email is what actually settles concurrent registrations.
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditRegister,
		SubjectID:  created.ID,
		Email:      created.Email,
		OccurredAt: now,
	})
	s.log.Info().Str("user_id", created.ID).Msg("account registered")

	return created, nil
}

// Login verifies credentials and issues an access/refresh token pair signed
// with distinct secrets. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*ports.TokenPair, error) {
	throttled, err := s.guard.TooManyFailures(ctx, email)
	if err != nil {
		// The guard is advisory: a broken redis must not lock everyone out.
		s.log.Warn().Err(err).Msg("login guard unavailable, proceeding")
	} else if throttled {
		s.audit.Record(domain.AuditEvent{
			Action:     domain.AuditLoginThrottled,
			Email:      email,
			OccurredAt: time.Now().UTC(),
		})
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.failLogin(ctx, email)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !password.Verify(rawPassword, user.PasswordHash) {
		return nil, s.failLogin(ctx, email)
	}

	accessToken, err := token.Issue(user.ID, user.Email, string(user.Role), s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("login: sign access token: %w", err)
	}
	refreshToken, err := token.Issue(user.ID, user.Email, string(user.Role), s.tokens.RefreshSecret, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("login: sign refresh token: %w", err)
	}

	if err := s.guard.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login guard")
	}
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLogin,
		SubjectID:  user.ID,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	})

	return &ports.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.expiresIn(accessToken),
	}, nil
}

// failLogin records the failed attempt and returns the uniform credential
// error used for both unknown-email and wrong-password paths.
func (s *AuthService) failLogin(ctx context.Context, email string) error {
	if err := s.guard.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLoginFailed,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})
	return domain.ErrInvalidCredentials
}

// expiresIn reads the absolute expiry back out of a token this process just
// signed, so the advertised lifetime always matches the token itself.
func (s *AuthService) expiresIn(accessToken string) int64 {
	claims, err := token.Decode(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		return fallbackExpiresIn
	}
	remaining := int64(time.Until(claims.ExpiresAt.Time).Seconds())
	if remaining <= 0 {
		return fallbackExpiresIn
	}
	return remaining
}

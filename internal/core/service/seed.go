package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
	"github.com/conectar/admin-api/internal/pkg/password"
)

const (
	seedAdminName     = "Super Admin"
	seedAdminEmail    = "admin@conectar.com"
	seedAdminPassword = "admin123"
)

// EnsureDefaultAdmin creates the bootstrap admin account when no admin
// exists yet, so a fresh deployment is reachable. The credentials are
// logged once and expected to be rotated immediately.
func EnsureDefaultAdmin(ctx context.Context, users ports.UserRepository, log zerolog.Logger) error {
	exists, err := users.ExistsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := password.Hash(seedAdminPassword)
	if err != nil {
		return fmt.Errorf("admin seed: hash password: %w", err)
	}

	now := time.Now().UTC()
	admin, err := users.Create(ctx, &domain.User{
		Name:         seedAdminName,
		Email:        seedAdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}

	log.Info().Str("email", seedAdminEmail).Str("user_id", admin.ID).Msg("default admin created")
	return nil
}

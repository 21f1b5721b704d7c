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

// ProfileService implements self-service updates. Every change is gated by
// re-confirmation of the current password, and the role field is not
// reachable from this path at all.
type ProfileService struct {
	users ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewProfileService(users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, audit: audit, log: log}
}

func (s *ProfileService) Update(ctx context.Context, userID string, in ports.ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !password.Verify(in.CurrentPassword, user.PasswordHash) {
		return nil, domain.ErrPasswordMismatch
	}

	if in.Email != nil && *in.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.NewPassword != nil {
		hash, err := password.Hash(*in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("update profile: hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditProfileUpdated,
		SubjectID:  updated.ID,
		ActorID:    updated.ID,
		Email:      updated.Email,
		OccurredAt: updated.UpdatedAt,
	})

	return updated, nil
}

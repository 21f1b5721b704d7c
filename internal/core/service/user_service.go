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

const defaultPageLimit = 20

// UserService implements account administration and the per-record access
// rules: a non-admin actor only ever touches their own record, never their
// role, and nobody deletes themselves.
type UserService struct {
	users ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{users: users, audit: audit, log: log}
}

// Create is the admin-only account creation path; unlike self-registration
// it accepts any valid role.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := password.Hash(in.RawPassword)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditUserCreated,
		SubjectID:  created.ID,
		Email:      created.Email,
		Detail:     string(created.Role),
		OccurredAt: now,
	})

	return created, nil
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = defaultPageLimit
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.UserPage{
		Users:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, in ports.UpdateUserInput) (*domain.User, error) {
	if !actor.IsAdmin() && actor.ID != in.ID {
		return nil, domain.ErrForbidden
	}
	if !actor.IsAdmin() && in.Role != nil {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.RawPassword != nil {
		hash, err := password.Hash(*in.RawPassword)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditUserUpdated,
		SubjectID:  updated.ID,
		ActorID:    actor.ID,
		Email:      updated.Email,
		OccurredAt: updated.UpdatedAt,
	})

	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	// Self-deletion guard applies to every role.
	if actor.ID == id {
		return domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditUserDeleted,
		SubjectID:  user.ID,
		ActorID:    actor.ID,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	})
	s.log.Info().Str("user_id", user.ID).Str("actor_id", actor.ID).Msg("user deleted")

	return nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

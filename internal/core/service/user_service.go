package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// UserService implements registration, role resolution, and promotions.
type UserService struct {
	users  ports.UserRepository
	owners ports.OwnerRecordRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	owners ports.OwnerRecordRepository,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *UserService {
	return &UserService{users: users, owners: owners, audit: audit, logger: logger}
}

// Register creates the principal on first sight of an email. Registering an
// already-known email is not an error: the existing user is returned and
// flagged so the transport can report it.
func (s *UserService) Register(ctx context.Context, email, name string) (*ports.RegisterResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return &ports.RegisterResult{User: existing, AlreadyExisted: true}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.users.Insert(ctx, &domain.User{
		Email:     email,
		Name:      name,
		Role:      domain.RoleNone,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("user registered")
	return &ports.RegisterResult{User: created}, nil
}

// ResolveRole reads the user store fresh on every call. An unknown email is
// a valid low-privilege state, not an error.
func (s *UserService) ResolveRole(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.RoleNone, nil
		}
		return "", fmt.Errorf("resolve role: %w", err)
	}
	return user.Role, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Promote moves a principal to the target role with upsert semantics on the
// user document. Owner promotion inserts the owner profile first; admin
// promotion removes any stale owner profile first. The two store writes are
// not wrapped in a transaction: a crash between them can leave an admin with
// a lingering owner record until the next promotion.
func (s *UserService) Promote(ctx context.Context, input ports.PromoteInput) error {
	if !domain.IsPromotableRole(input.TargetRole) {
		return domain.ErrInvalidRole
	}

	switch input.TargetRole {
	case domain.RoleOwner:
		rec := &domain.OwnerRecord{Email: input.Email, Profile: input.Profile}
		if err := s.owners.Insert(ctx, rec); err != nil {
			return fmt.Errorf("promote owner: %w", err)
		}
	case domain.RoleAdmin:
		// Best-effort supersede: an absent owner record is fine.
		if err := s.owners.DeleteByEmail(ctx, input.Email); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
	}

	if err := s.users.SetRole(ctx, input.Email, input.TargetRole); err != nil {
		return fmt.Errorf("promote: set role: %w", err)
	}

	s.logger.Info().
		Str("email", input.Email).
		Str("role", input.TargetRole).
		Str("actor", input.Actor).
		Msg("user promoted")

	s.audit.Record(domain.AuditEvent{
		Subject:    input.Email,
		Action:     domain.AuditActionPromoted,
		Actor:      input.Actor,
		Detail:     map[string]string{"role": input.TargetRole},
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

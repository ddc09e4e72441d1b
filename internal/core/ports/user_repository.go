package ports

import (
	"context"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence for principals.
type UserRepository interface {
	// FindByEmail returns the user or domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetRole upserts the user's role: a missing user document is created
	// with the given role rather than reported as an error.
	SetRole(ctx context.Context, email, role string) error
	List(ctx context.Context) ([]*domain.User, error)
}

// OwnerRecordRepository defines persistence for owner profile records.
type OwnerRecordRepository interface {
	Insert(ctx context.Context, rec *domain.OwnerRecord) error
	// DeleteByEmail removes the record if present. Absence is not an error.
	DeleteByEmail(ctx context.Context, email string) error
}

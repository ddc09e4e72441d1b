package ports

import (
	"context"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

// RoleResolver reports the current role of a principal. Implementations must
// read the user store fresh on every call so that promotions take effect on
// the very next authorization decision; an absent user resolves to
// domain.RoleNone, not an error.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (string, error)
}

// RegisterResult reports the outcome of a registration attempt.
type RegisterResult struct {
	User *domain.User
	// AlreadyExisted is true when the email was registered before; the
	// existing user is returned untouched.
	AlreadyExisted bool
}

// PromoteInput carries a role promotion request.
type PromoteInput struct {
	Email      string
	TargetRole string
	// Actor is the admin performing the promotion, recorded in the audit trail.
	Actor string
	// Profile is the owner profile payload; only read for owner promotions.
	Profile map[string]string
}

// UserService defines principal use cases.
type UserService interface {
	RoleResolver

	Register(ctx context.Context, email, name string) (*RegisterResult, error)
	List(ctx context.Context) ([]*domain.User, error)
	Promote(ctx context.Context, input PromoteInput) error
}

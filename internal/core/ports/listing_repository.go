package ports

import (
	"context"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

// ListingPatch carries a partial update to a listing's descriptive fields.
// Nil pointers leave the corresponding field untouched; Fields entries are
// merged into the listing's open attribute map.
type ListingPatch struct {
	City          *string
	Title         *string
	PricePerNight *float64
	Fields        map[string]string
}

// StatusUpdate reports the outcome of a moderation status write. A no-match
// upsert (Matched false, UpsertedID set) is distinguished from an update of
// an existing listing so the transport can report it.
type StatusUpdate struct {
	Matched    bool
	UpsertedID string
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Insert(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	FindByOwner(ctx context.Context, ownerEmail string) ([]*domain.Listing, error)
	FindAll(ctx context.Context) ([]*domain.Listing, error)
	// UpdateFields is a strict update: when ownerEmail is non-empty the
	// filter additionally requires owner_email to match, and a filter that
	// matches nothing returns domain.ErrListingNotFound.
	UpdateFields(ctx context.Context, id, ownerEmail string, patch ListingPatch) error
	// SetStatus applies a moderation label with upsert semantics: a missing
	// listing id is created with just the status (insert-if-missing policy).
	SetStatus(ctx context.Context, id string, status domain.ListingStatus) (*StatusUpdate, error)
	// Delete removes a listing, scoped to ownerEmail when non-empty.
	Delete(ctx context.Context, id, ownerEmail string) error
	// TopCities groups listings by city, counting total and approved
	// listings, ordered by total descending and truncated to limit.
	TopCities(ctx context.Context, limit int) ([]domain.CitySummary, error)
}

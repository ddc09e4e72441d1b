package ports

import (
	"context"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

// CreateListingInput carries the data needed to submit a new listing.
type CreateListingInput struct {
	OwnerEmail    string
	City          string
	Title         string
	PricePerNight float64
	// Status is optional; empty defaults to pending.
	Status string
	Fields map[string]string
}

// UpdateListingInput carries an owner's partial edit of their listing.
type UpdateListingInput struct {
	ID         string
	OwnerEmail string
	Patch      ListingPatch
}

// SetStatusInput carries an admin moderation decision.
type SetStatusInput struct {
	ID     string
	Status string
	Actor  string
}

// ListingService defines listing use cases.
type ListingService interface {
	Create(ctx context.Context, input CreateListingInput) (*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Update(ctx context.Context, input UpdateListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, id, ownerEmail string) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Listing, error)
	ListAll(ctx context.Context) ([]*domain.Listing, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*StatusUpdate, error)
}

// CityService exposes the public ranked city aggregate.
type CityService interface {
	TopCities(ctx context.Context, limit int) ([]domain.CitySummary, error)
}

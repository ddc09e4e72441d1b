package domain

import (
	"errors"
	"time"
)

// ListingStatus is the moderation state of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusDenied   ListingStatus = "denied"
)

var ErrListingNotFound = errors.New("listing not found")
var ErrInvalidStatus = errors.New("invalid moderation status")
var ErrForbidden = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("unauthenticated")

// IsModerationStatus reports whether s is a label an admin may apply.
// Moderation can re-set either label at any time; only the pending state
// cannot be restored once left.
func (s ListingStatus) IsModerationStatus() bool {
	return s == StatusApproved || s == StatusDenied
}

// Listing is a rentable unit. A fixed required-field set plus an open map of
// additional string-keyed attributes, so owners can attach arbitrary
// descriptive fields without schema changes.
type Listing struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	OwnerEmail    string            `json:"owner_email" bson:"owner_email"`
	City          string            `json:"city" bson:"city"`
	Title         string            `json:"title,omitempty" bson:"title,omitempty"`
	PricePerNight float64           `json:"price_per_night,omitempty" bson:"price_per_night,omitempty"`
	Status        ListingStatus     `json:"status" bson:"status"`
	Fields        map[string]string `json:"fields,omitempty" bson:"fields,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
}

// CitySummary is the derived per-city aggregate returned by the top-cities
// query. It is computed on demand and never persisted.
type CitySummary struct {
	City             string `json:"city" bson:"_id"`
	TotalListings    int64  `json:"total_listings" bson:"total_listings"`
	ApprovedListings int64  `json:"approved_listings" bson:"approved_listings"`
}

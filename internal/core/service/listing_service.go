package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// ListingService implements listing CRUD and the moderation lifecycle.
type ListingService struct {
	repo   ports.ListingRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewListingService(repo ports.ListingRepository, audit ports.AuditRecorder, logger zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, audit: audit, logger: logger}
}

// Create inserts a new listing for the owning principal. The caller may seed
// any status; an empty one defaults to pending.
func (s *ListingService) Create(ctx context.Context, input ports.CreateListingInput) (*domain.Listing, error) {
	status := domain.ListingStatus(input.Status)
	if status == "" {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		OwnerEmail:    input.OwnerEmail,
		City:          input.City,
		Title:         input.Title,
		PricePerNight: input.PricePerNight,
		Status:        status,
		Fields:        input.Fields,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Insert(ctx, listing)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", input.OwnerEmail).Msg("failed to create listing")
		return nil, err
	}

	s.logger.Info().
		Str("listing_id", created.ID).
		Str("owner", created.OwnerEmail).
		Str("city", created.City).
		Msg("listing created")

	return created, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies an owner's partial edit. The repository filter includes the
// owner email, so a listing owned by someone else reads as not found here;
// the authorization gate has already rejected such callers with forbidden.
func (s *ListingService) Update(ctx context.Context, input ports.UpdateListingInput) (*domain.Listing, error) {
	if err := s.repo.UpdateFields(ctx, input.ID, input.OwnerEmail, input.Patch); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, input.ID)
}

func (s *ListingService) Delete(ctx context.Context, id, ownerEmail string) error {
	if err := s.repo.Delete(ctx, id, ownerEmail); err != nil {
		return err
	}
	s.logger.Info().Str("listing_id", id).Str("owner", ownerEmail).Msg("listing deleted")
	return nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Listing, error) {
	return s.repo.FindByOwner(ctx, ownerEmail)
}

func (s *ListingService) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	return s.repo.FindAll(ctx)
}

// SetStatus applies an admin moderation decision. Only the approved and
// denied labels are accepted; anything else is rejected explicitly instead
// of falling through as a silent no-op. The write upserts: moderating an id
// with no listing creates a bare document, and the result reports which of
// the two happened.
func (s *ListingService) SetStatus(ctx context.Context, input ports.SetStatusInput) (*ports.StatusUpdate, error) {
	status := domain.ListingStatus(input.Status)
	if !status.IsModerationStatus() {
		s.logger.Warn().
			Str("listing_id", input.ID).
			Str("status", input.Status).
			Msg("rejected unknown moderation status")
		return nil, domain.ErrInvalidStatus
	}

	result, err := s.repo.SetStatus(ctx, input.ID, status)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if !result.Matched {
		s.logger.Warn().
			Str("listing_id", input.ID).
			Str("status", input.Status).
			Msg("moderation matched no listing, upserted bare document")
	}

	s.audit.Record(domain.AuditEvent{
		Subject:    input.ID,
		Action:     domain.AuditActionStatusSet,
		Actor:      input.Actor,
		Detail:     map[string]string{"status": input.Status},
		OccurredAt: time.Now().UTC(),
	})

	return result, nil
}

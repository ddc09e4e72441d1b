package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

const defaultTopCitiesLimit = 3

// CityCache abstracts the aggregate result cache (Redis). A nil-safe
// implementation is not required; wire NoopCityCache when caching is off.
type CityCache interface {
	Get(ctx context.Context, limit int) ([]domain.CitySummary, bool, error)
	Set(ctx context.Context, limit int, summaries []domain.CitySummary) error
}

// CityService serves the public ranked city aggregate, fronted by a
// short-lived cache. The aggregate is marketing data; staleness within the
// cache TTL is acceptable, unlike role lookups which are never cached.
type CityService struct {
	repo  ports.ListingRepository
	cache CityCache
	log   zerolog.Logger
}

func NewCityService(repo ports.ListingRepository, cache CityCache, log zerolog.Logger) *CityService {
	return &CityService{repo: repo, cache: cache, log: log}
}

// TopCities returns up to limit cities ranked by total listing count, with
// the approved count alongside. A non-positive limit falls back to 3.
func (s *CityService) TopCities(ctx context.Context, limit int) ([]domain.CitySummary, error) {
	if limit <= 0 {
		limit = defaultTopCitiesLimit
	}

	if cached, ok, err := s.cache.Get(ctx, limit); err != nil {
		s.log.Warn().Err(err).Msg("city cache read failed, querying store")
	} else if ok {
		return cached, nil
	}

	summaries, err := s.repo.TopCities(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, limit, summaries); err != nil {
		s.log.Warn().Err(err).Msg("city cache write failed")
	}

	return summaries, nil
}

// NoopCityCache disables caching; every query hits the store.
type NoopCityCache struct{}

func (NoopCityCache) Get(context.Context, int) ([]domain.CitySummary, bool, error) {
	return nil, false, nil
}

func (NoopCityCache) Set(context.Context, int, []domain.CitySummary) error { return nil }

package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

type stubCityCache struct {
	entries map[int][]domain.CitySummary
	gets    int
	sets    int
}

func newStubCityCache() *stubCityCache {
	return &stubCityCache{entries: make(map[int][]domain.CitySummary)}
}

func (c *stubCityCache) Get(_ context.Context, limit int) ([]domain.CitySummary, bool, error) {
	c.gets++
	cached, ok := c.entries[limit]
	return cached, ok, nil
}

func (c *stubCityCache) Set(_ context.Context, limit int, summaries []domain.CitySummary) error {
	c.sets++
	c.entries[limit] = summaries
	return nil
}

func seedListings(t *testing.T, repo *stubListingRepo) {
	t.Helper()
	fixture := []struct {
		city   string
		status domain.ListingStatus
	}{
		{"A", domain.StatusApproved},
		{"A", domain.StatusApproved},
		{"A", domain.StatusPending},
		{"A", domain.StatusDenied},
		{"B", domain.StatusApproved},
	}
	for _, f := range fixture {
		if _, err := repo.Insert(context.Background(), &domain.Listing{
			OwnerEmail: "alice@example.com",
			City:       f.city,
			Status:     f.status,
		}); err != nil {
			t.Fatalf("seed listing: %v", err)
		}
	}
}

func TestCityService_TopCities_RankedAggregate(t *testing.T) {
	repo := newStubListingRepo()
	seedListings(t, repo)
	svc := NewCityService(repo, newStubCityCache(), zerolog.Nop())

	got, err := svc.TopCities(context.Background(), 3)
	if err != nil {
		t.Fatalf("TopCities returned error: %v", err)
	}

	want := []domain.CitySummary{
		{City: "A", TotalListings: 4, ApprovedListings: 2},
		{City: "B", TotalListings: 1, ApprovedListings: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d summaries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("summary %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestCityService_TopCities_TruncatesToLimit(t *testing.T) {
	repo := newStubListingRepo()
	seedListings(t, repo)
	svc := NewCityService(repo, newStubCityCache(), zerolog.Nop())

	got, err := svc.TopCities(context.Background(), 1)
	if err != nil {
		t.Fatalf("TopCities returned error: %v", err)
	}
	if len(got) != 1 || got[0].City != "A" {
		t.Fatalf("expected only city A, got %+v", got)
	}
}

func TestCityService_TopCities_DefaultLimit(t *testing.T) {
	repo := newStubListingRepo()
	seedListings(t, repo)
	cache := newStubCityCache()
	svc := NewCityService(repo, cache, zerolog.Nop())

	if _, err := svc.TopCities(context.Background(), 0); err != nil {
		t.Fatalf("TopCities returned error: %v", err)
	}
	if _, ok := cache.entries[3]; !ok {
		t.Fatalf("expected default limit 3 to be used, cache keys: %v", cache.entries)
	}
}

func TestCityService_TopCities_ServesFromCache(t *testing.T) {
	repo := newStubListingRepo()
	seedListings(t, repo)
	cache := newStubCityCache()
	svc := NewCityService(repo, cache, zerolog.Nop())

	first, err := svc.TopCities(context.Background(), 3)
	if err != nil {
		t.Fatalf("first TopCities failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	// Mutate the store; the cached aggregate must still be served.
	if _, err := repo.Insert(context.Background(), &domain.Listing{City: "C", Status: domain.StatusApproved}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	second, err := svc.TopCities(context.Background(), 3)
	if err != nil {
		t.Fatalf("second TopCities failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("expected cached result, got %+v", second)
	}
	if cache.sets != 1 {
		t.Fatalf("cache should not be rewritten on a hit, got %d writes", cache.sets)
	}
}

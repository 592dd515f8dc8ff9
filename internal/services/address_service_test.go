package services

import (
	"address-book-service/internal/adapters/repositories"
	"address-book-service/internal/domain"
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*AddressService, *fakeCache) {
	t.Helper()
	cache := newFakeCache()
	svc := NewAddressService(repositories.NewMemoryAddressRepository(), cache)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, cache
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func validInput() domain.AddressInput {
	return domain.AddressInput{
		Street:     "  221B Baker Street ",
		City:       "London",
		State:      strPtr("  "),
		Country:    "UK",
		PostalCode: strPtr(" NW1 6XE "),
		Latitude:   floatPtr(51.5238),
		Longitude:  floatPtr(-0.1586),
	}
}

func TestAddressServiceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, cache := newTestService(t)

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected positive id, got %d", created.ID)
	}
	if created.Street != "221B Baker Street" {
		t.Fatalf("street not trimmed: %q", created.Street)
	}
	if created.State != nil {
		t.Fatalf("blank state should be stored as nil, got %q", *created.State)
	}
	if created.PostalCode == nil || *created.PostalCode != "NW1 6XE" {
		t.Fatalf("postal code = %v", created.PostalCode)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("created_at and updated_at should match on create")
	}
	if cache.invalidated != 1 {
		t.Fatalf("create should invalidate the cache once, got %d", cache.invalidated)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.City != "London" || got.Location.Lat != 51.5238 {
		t.Fatalf("unexpected address %+v", got)
	}
}

func TestAddressServiceCreateRejectsInvalidInput(t *testing.T) {
	svc, cache := newTestService(t)

	in := validInput()
	in.Street = "   "
	in.Latitude = floatPtr(120)

	_, err := svc.Create(context.Background(), in)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Violations["street"] == "" || verr.Violations["latitude"] == "" {
		t.Fatalf("missing violations: %v", verr.Violations)
	}
	if cache.invalidated != 0 {
		t.Fatalf("failed create must not invalidate the cache")
	}
}

func TestAddressServiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Get(ctx, 42); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("get: expected ErrAddressNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, 42, domain.AddressPatch{City: strPtr("Paris")}); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("update: expected ErrAddressNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 42); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("delete: expected ErrAddressNotFound, got %v", err)
	}
}

func TestAddressServicePartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc, cache := newTestService(t)

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	lat := 48.8566
	updated, err := svc.Update(ctx, created.ID, domain.AddressPatch{
		City:       strPtr(" Paris "),
		PostalCode: strPtr(""),
		Latitude:   &lat,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.City != "Paris" {
		t.Fatalf("city = %q", updated.City)
	}
	if updated.Street != created.Street || updated.Country != created.Country {
		t.Fatalf("fields absent from the patch must not change: %+v", updated)
	}
	if updated.PostalCode != nil {
		t.Fatalf("empty postal code should clear the field")
	}
	if updated.Location.Lat != lat || updated.Location.Lon != created.Location.Lon {
		t.Fatalf("location = %+v", updated.Location)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at should move forward")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at must not change")
	}
	if cache.invalidated != 2 {
		t.Fatalf("expected 2 invalidations, got %d", cache.invalidated)
	}

	_, err = svc.Update(ctx, created.ID, domain.AddressPatch{Country: strPtr(" ")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("blank country should fail validation, got %v", err)
	}
}

func TestAddressServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, cache := newTestService(t)

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("deleted address still readable: %v", err)
	}
	if cache.invalidated != 2 {
		t.Fatalf("expected 2 invalidations, got %d", cache.invalidated)
	}
}

func TestAddressServiceListPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, validInput()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Fatalf("unexpected page %+v", page)
	}

	page, err = svc.List(ctx, 10, DefaultListLimit)
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if len(page) != 0 {
		t.Fatalf("expected empty page, got %d", len(page))
	}

	for _, tc := range []struct {
		skip, limit int
		field       string
	}{
		{-1, 10, "skip"},
		{0, 0, "limit"},
		{0, MaxListLimit + 1, "limit"},
	} {
		_, err := svc.List(ctx, tc.skip, tc.limit)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Violations[tc.field] == "" {
			t.Fatalf("skip=%d limit=%d: expected %s violation, got %v", tc.skip, tc.limit, tc.field, err)
		}
	}
}

func TestAddressServiceSeed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	inputs := []domain.AddressInput{validInput(), validInput()}
	n, err := svc.Seed(ctx, inputs)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d, want 2", n)
	}

	n, err = svc.Seed(ctx, inputs)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n != 0 {
		t.Fatalf("seeding a non-empty store should be a no-op, inserted %d", n)
	}
}

func TestAddressServiceWriteThenNearbyIsFresh(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryAddressRepository()
	cache := newFakeCache()
	svc := NewAddressService(repo, cache)
	finder := NewNearbyFinder(repo, mustCalc(t, DefaultEarthRadiusKm), cache)

	q := domain.NearbyQuery{Reference: domain.Coordinates{Lat: 51.5238, Lon: -0.1586}, RadiusKm: 5}

	got, err := finder.FindNearby(ctx, q)
	if err != nil {
		t.Fatalf("find nearby: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}

	if _, err := svc.Create(ctx, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err = finder.FindNearby(ctx, q)
	if err != nil {
		t.Fatalf("find nearby after create: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("stale cached result served after write: %d results", len(got))
	}
}

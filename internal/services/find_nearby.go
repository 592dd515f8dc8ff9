package services

import (
	"address-book-service/internal/domain"
	"address-book-service/internal/platform/obs"
	"address-book-service/internal/ports"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"golang.org/x/sync/singleflight"
)

// ValidateNearbyQuery rejects out-of-range reference points and radii that
// are not finite positive numbers.
func ValidateNearbyQuery(q domain.NearbyQuery) error {
	if err := q.Reference.Validate(); err != nil {
		return err
	}
	if math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) || q.RadiusKm <= 0 {
		return fmt.Errorf("%w: radius_km must be greater than 0, got %v", domain.ErrInvalidRadius, q.RadiusKm)
	}
	return nil
}

// FindNearby returns every stored address within q.RadiusKm of q.Reference,
// closest first.
//
// The store is read once. When it can narrow the read to a bounding box the
// box is used as a pre-filter; the exact haversine check still decides
// membership, so the result is the same as a full scan. Store failures are
// returned wrapped and no partial result is produced.
func FindNearby(
	ctx context.Context,
	store ports.AddressStore,
	dc DistanceCalculator,
	q domain.NearbyQuery,
) (_ []domain.NearbyAddress, err error) {
	defer obs.Time(ctx, "nearby.FindNearby")(&err)

	if err := ValidateNearbyQuery(q); err != nil {
		return nil, fmt.Errorf("find nearby: %w", err)
	}

	candidates, err := loadCandidates(ctx, store, dc, q)
	if err != nil {
		return nil, fmt.Errorf("find nearby: %w", err)
	}

	within := FilterWithinRadius(dc, candidates, q.Reference, q.RadiusKm)
	ranked := Rank(dc, within, q.Reference)

	slog.InfoContext(ctx, "nearby search",
		"lat", q.Reference.Lat,
		"lon", q.Reference.Lon,
		"radius_km", q.RadiusKm,
		"candidates", len(candidates),
		"found", len(ranked),
	)

	return ranked, nil
}

func loadCandidates(
	ctx context.Context,
	store ports.AddressStore,
	dc DistanceCalculator,
	q domain.NearbyQuery,
) ([]domain.Address, error) {
	// Prefer a bounding-box read when supported to shrink the candidate set.
	if bs, ok := store.(ports.BoundedAddressStore); ok {
		if b, ok := SearchBounds(dc, q.Reference, q.RadiusKm); ok {
			addrs, err := bs.ListWithinBounds(ctx, b)
			if err != nil {
				return nil, fmt.Errorf("list addresses within bounds: %w", err)
			}
			return addrs, nil
		}
	}

	addrs, err := store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all addresses: %w", err)
	}
	return addrs, nil
}

// NearbyFinder serves proximity queries with an optional result cache.
// Identical queries running at the same time share a single store read.
//
// NearbyFinder is safe for concurrent use.
type NearbyFinder struct {
	Store ports.AddressStore
	Calc  DistanceCalculator
	Cache ports.NearbyCache

	group singleflight.Group
}

func NewNearbyFinder(store ports.AddressStore, calc DistanceCalculator, cache ports.NearbyCache) *NearbyFinder {
	return &NearbyFinder{Store: store, Calc: calc, Cache: cache}
}

func (f *NearbyFinder) FindNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyAddress, error) {
	if err := ValidateNearbyQuery(q); err != nil {
		return nil, fmt.Errorf("find nearby: %w", err)
	}

	gen, cacheOK := f.generation(ctx)
	if cacheOK {
		hit, ok, err := f.Cache.Get(ctx, gen, q)
		if err != nil {
			slog.WarnContext(ctx, "nearby cache read failed", "err", err)
		} else if ok {
			return hit, nil
		}
	}

	key := fmt.Sprintf("%d|%v|%v|%v", gen, q.Reference.Lat, q.Reference.Lon, q.RadiusKm)
	v, err, shared := f.group.Do(key, func() (any, error) {
		return FindNearby(ctx, f.Store, f.Calc, q)
	})
	if err != nil {
		return nil, err
	}

	results := v.([]domain.NearbyAddress)
	if shared {
		results = slices.Clone(results)
	}

	if cacheOK {
		if err := f.Cache.Put(ctx, gen, q, results); err != nil {
			slog.WarnContext(ctx, "nearby cache write failed", "err", err)
		}
	}

	return results, nil
}

// generation returns the cache generation, or false when the cache is
// disabled or unreachable. Queries then go straight to the store.
func (f *NearbyFinder) generation(ctx context.Context) (int64, bool) {
	if f.Cache == nil {
		return 0, false
	}
	gen, err := f.Cache.Generation(ctx)
	if err != nil {
		slog.WarnContext(ctx, "nearby cache generation lookup failed", "err", err)
		return 0, false
	}
	return gen, true
}

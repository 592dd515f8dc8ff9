package ports

import (
	"address-book-service/internal/domain"
	"context"
)

// Contract for caching proximity query results between writes.
//
// Entries are scoped to a generation. Readers fetch the current generation
// before touching the store and use it for both Get and Put, and every address
// write bumps it, so a result computed from a pre-write snapshot is never
// served after the write.
type NearbyCache interface {
	Generation(ctx context.Context) (int64, error)
	// A miss is reported as (nil, false, nil).
	Get(ctx context.Context, gen int64, q domain.NearbyQuery) ([]domain.NearbyAddress, bool, error)
	Put(ctx context.Context, gen int64, q domain.NearbyQuery, results []domain.NearbyAddress) error
	// Start a new generation; called after any address write.
	Invalidate(ctx context.Context) error
}

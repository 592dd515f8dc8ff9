package ports

import (
	"address-book-service/internal/domain"
	"context"
)

// Port: the read side the proximity search depends on.
type AddressStore interface {
	// Return every persisted address ordered by ID, as a consistent snapshot.
	ListAll(ctx context.Context) ([]domain.Address, error)
}

// Optional extension of AddressStore that can narrow the candidate set to a
// bounding box. Results must be a superset of the addresses inside b and
// ordered by ID, like ListAll.
type BoundedAddressStore interface {
	AddressStore
	ListWithinBounds(ctx context.Context, b domain.Bounds) ([]domain.Address, error)
}

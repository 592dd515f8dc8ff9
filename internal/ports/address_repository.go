package ports

import (
	"address-book-service/internal/domain"
	"context"
)

// Port: full CRUD persistence for Address records.
// Lookups of missing IDs return domain.ErrAddressNotFound.
type AddressRepository interface {
	AddressStore

	Create(ctx context.Context, a domain.Address) (domain.Address, error)
	Get(ctx context.Context, id int64) (domain.Address, error)
	List(ctx context.Context, skip, limit int) ([]domain.Address, error)
	Update(ctx context.Context, a domain.Address) (domain.Address, error)
	Delete(ctx context.Context, id int64) error
}

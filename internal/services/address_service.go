package services

import (
	"address-book-service/internal/domain"
	"address-book-service/internal/ports"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// AddressService validates client input and applies CRUD operations to the
// repository. Every successful write invalidates the nearby-result cache.
type AddressService struct {
	Repo  ports.AddressRepository
	Cache ports.NearbyCache
	Now   func() time.Time
}

func NewAddressService(repo ports.AddressRepository, cache ports.NearbyCache) *AddressService {
	return &AddressService{Repo: repo, Cache: cache, Now: time.Now}
}

func (s *AddressService) Create(ctx context.Context, in domain.AddressInput) (domain.Address, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Address{}, fmt.Errorf("create address: %w", err)
	}

	slog.InfoContext(ctx, "creating address", "city", in.City, "country", in.Country)

	now := s.now()
	created, err := s.Repo.Create(ctx, domain.Address{
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		Location:   in.Location(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return domain.Address{}, fmt.Errorf("create address: %w", err)
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "address created", "id", created.ID)
	return created, nil
}

func (s *AddressService) Get(ctx context.Context, id int64) (domain.Address, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Address{}, fmt.Errorf("get address %d: %w", id, err)
	}
	return a, nil
}

// List returns a page of addresses ordered by ID.
func (s *AddressService) List(ctx context.Context, skip, limit int) ([]domain.Address, error) {
	v := domain.Violations{}
	if skip < 0 {
		v["skip"] = "must_be_non_negative"
	}
	if limit < 1 || limit > MaxListLimit {
		v["limit"] = "out_of_range"
	}
	if !v.Empty() {
		return nil, fmt.Errorf("list addresses: %w", &domain.ValidationError{Violations: v})
	}

	addrs, err := s.Repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addrs, nil
}

// Update applies a partial update. Only the fields present in p change.
func (s *AddressService) Update(ctx context.Context, id int64, p domain.AddressPatch) (domain.Address, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.Address{}, fmt.Errorf("update address %d: %w", id, err)
	}

	current, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address %d: %w", id, err)
	}

	next := p.Apply(current)
	next.UpdatedAt = s.now()

	updated, err := s.Repo.Update(ctx, next)
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address %d: %w", id, err)
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "address updated", "id", id)
	return updated, nil
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete address %d: %w", id, err)
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "address deleted", "id", id)
	return nil
}

func (s *AddressService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// A failed invalidation leaves stale entries until their TTL expires.
func (s *AddressService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		slog.ErrorContext(ctx, "nearby cache invalidation failed", "err", err)
	}
}

// Seed creates the given addresses when the repository is empty and reports
// how many were inserted. A non-empty repository is left untouched.
func (s *AddressService) Seed(ctx context.Context, inputs []domain.AddressInput) (int, error) {
	existing, err := s.Repo.List(ctx, 0, 1)
	if err != nil {
		return 0, fmt.Errorf("seed addresses: check existing: %w", err)
	}
	if len(existing) > 0 {
		slog.InfoContext(ctx, "seed skipped, addresses already present")
		return 0, nil
	}

	for i, in := range inputs {
		if _, err := s.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed addresses: item %d: %w", i+1, err)
		}
	}
	return len(inputs), nil
}

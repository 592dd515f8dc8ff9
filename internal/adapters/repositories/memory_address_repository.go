package repositories

import (
	"address-book-service/internal/domain"
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
)

// Side length, in degrees, of the rectangle stored for each point.
const pointRectSize = 1e-9

// addressItem is the rtree entry for one address, keyed on (lon, lat).
type addressItem struct {
	addr domain.Address
	rect rtreego.Rect
}

func (it *addressItem) Bounds() rtreego.Rect { return it.rect }

// MemoryAddressRepository keeps addresses in process memory with an R-tree
// over their coordinates for bounding-box reads. Used for local runs and tests.
//
// It is safe for concurrent use; reads see a consistent snapshot.
type MemoryAddressRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*addressItem
	tree   *rtreego.Rtree
}

func NewMemoryAddressRepository() *MemoryAddressRepository {
	return &MemoryAddressRepository{
		nextID: 1,
		byID:   make(map[int64]*addressItem),
		tree:   rtreego.NewTree(2, 25, 50),
	}
}

func (m *MemoryAddressRepository) ListAll(ctx context.Context) ([]domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Address, 0, len(m.byID))
	for _, it := range m.byID {
		out = append(out, it.addr)
	}
	sortByID(out)
	return out, nil
}

func (m *MemoryAddressRepository) ListWithinBounds(ctx context.Context, b domain.Bounds) ([]domain.Address, error) {
	rect, err := rtreego.NewRect(
		rtreego.Point{b.MinLon, b.MinLat},
		[]float64{positiveSpan(b.MaxLon - b.MinLon), positiveSpan(b.MaxLat - b.MinLat)},
	)
	if err != nil {
		return nil, fmt.Errorf("list addresses within bounds: build search rect: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := m.tree.SearchIntersect(rect)
	out := make([]domain.Address, 0, len(hits))
	for _, h := range hits {
		a := h.(*addressItem).addr
		if b.Contains(a.Location) {
			out = append(out, a)
		}
	}
	sortByID(out)
	return out, nil
}

func (m *MemoryAddressRepository) List(ctx context.Context, skip, limit int) ([]domain.Address, error) {
	all, _ := m.ListAll(ctx)
	if skip >= len(all) {
		return []domain.Address{}, nil
	}
	end := min(skip+limit, len(all))
	return all[skip:end], nil
}

func (m *MemoryAddressRepository) Get(ctx context.Context, id int64) (domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.byID[id]
	if !ok {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	return it.addr, nil
}

func (m *MemoryAddressRepository) Create(ctx context.Context, a domain.Address) (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = m.nextID
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()

	it, err := newAddressItem(a)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create address: %w", err)
	}

	m.nextID++
	m.byID[a.ID] = it
	m.tree.Insert(it)
	return a, nil
}

func (m *MemoryAddressRepository) Update(ctx context.Context, a domain.Address) (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.byID[a.ID]
	if !ok {
		return domain.Address{}, fmt.Errorf("update address id=%d: %w", a.ID, domain.ErrAddressNotFound)
	}

	a.CreatedAt = old.addr.CreatedAt
	a.UpdatedAt = a.UpdatedAt.UTC()

	it, err := newAddressItem(a)
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address id=%d: %w", a.ID, err)
	}

	m.tree.Delete(old)
	m.byID[a.ID] = it
	m.tree.Insert(it)
	return a, nil
}

func (m *MemoryAddressRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("delete address id=%d: %w", id, domain.ErrAddressNotFound)
	}

	m.tree.Delete(it)
	delete(m.byID, id)
	return nil
}

func newAddressItem(a domain.Address) (*addressItem, error) {
	rect, err := rtreego.NewRect(
		rtreego.Point{a.Location.Lon, a.Location.Lat},
		[]float64{pointRectSize, pointRectSize},
	)
	if err != nil {
		return nil, fmt.Errorf("build index rect: %w", err)
	}
	return &addressItem{addr: a, rect: rect}, nil
}

func positiveSpan(v float64) float64 {
	if v <= 0 {
		return pointRectSize
	}
	return v
}

func sortByID(addrs []domain.Address) {
	slices.SortFunc(addrs, func(x, y domain.Address) int {
		return cmp.Compare(x.ID, y.ID)
	})
}

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memoryRepo is the in-memory product store backing the default (non-durable)
// deployment and all tests.
type memoryRepo struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*Product
}

// NewMemoryRepository creates an empty in-memory product repository.
func NewMemoryRepository() Repository {
	return &memoryRepo{products: map[uuid.UUID]*Product{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		products = append(products, &cp)
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) Create(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memoryRepo) AdjustStock(ctx context.Context, deltas []StockDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole batch before touching anything so a failure leaves
	// every product as it was.
	for _, d := range deltas {
		p, ok := r.products[d.ProductID]
		if !ok {
			return ErrNotFound
		}
		if p.Stock+d.Delta < 0 {
			return fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, p.Name, p.Stock)
		}
	}
	for _, d := range deltas {
		r.products[d.ProductID].Stock += d.Delta
	}
	return nil
}

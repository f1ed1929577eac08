package sales

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	sales []*Sale
}

// NewMemoryRepository creates an empty in-memory sale history.
func NewMemoryRepository() Repository {
	return &memoryRepo{}
}

func (r *memoryRepo) Create(ctx context.Context, sale *Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sales = append(r.sales, copySale(sale))
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]*Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Sale, 0, len(r.sales))
	for i := len(r.sales) - 1; i >= 0; i-- {
		out = append(out, copySale(r.sales[i]))
	}
	return out, nil
}

func copySale(s *Sale) *Sale {
	cp := *s
	cp.Items = make([]SaleItem, len(s.Items))
	copy(cp.Items, s.Items)
	return &cp
}

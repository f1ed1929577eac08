package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no product exists with the given id.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock adjustment would leave a
	// product's stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidProduct is returned for malformed product data.
	ErrInvalidProduct = errors.New("invalid product")
)

// StockDelta is one product's stock change within an atomic batch.
type StockDelta struct {
	ProductID uuid.UUID
	Delta     int
}

// Repository defines the interface for product storage.
type Repository interface {
	// List returns a snapshot of all products ordered by name ascending.
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p *Product) error
	// Update replaces the stored record with the same id wholesale.
	Update(ctx context.Context, p *Product) error
	// AdjustStock applies every delta (negative for a sale) or none of them.
	// The negative-stock checks and the writes are one atomic step; a reader
	// never sees some deltas of a batch applied without the rest.
	AdjustStock(ctx context.Context, deltas []StockDelta) error
}

// Ledger serializes every write that must observe product stock and sale
// history as one atomic step: catalog mutations and the sale engine's whole
// validate-decrement-append sequence take the write lock. Readers that need
// a cross-store snapshot (stock together with history) take the read lock;
// repository reads on their own are internally consistent but may land
// between a commit's stock write and its history append.
type Ledger struct{ mu sync.RWMutex }

func NewLedger() *Ledger { return &Ledger{} }

func (l *Ledger) Lock()    { l.mu.Lock() }
func (l *Ledger) Unlock()  { l.mu.Unlock() }
func (l *Ledger) RLock()   { l.mu.RLock() }
func (l *Ledger) RUnlock() { l.mu.RUnlock() }

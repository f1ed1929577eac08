package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/astrapos/astra-pos/internal/modules/auth"
	"github.com/astrapos/astra-pos/internal/modules/catalog"
)

type fixture struct {
	svc     Service
	catalog catalog.Repository
	history Repository
}

func newFixture(t *testing.T) *fixture {
	catalogRepo := catalog.NewMemoryRepository()
	historyRepo := NewMemoryRepository()
	svc := NewService(historyRepo, catalogRepo, catalog.NewLedger(), 0.08, zaptest.NewLogger(t))
	return &fixture{svc: svc, catalog: catalogRepo, history: historyRepo}
}

func (f *fixture) seedProduct(t *testing.T, name string, price float64, stock int) *catalog.Product {
	p := &catalog.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.catalog.Create(context.Background(), p))
	return p
}

func cashier() *auth.Identity {
	return &auth.Identity{ID: uuid.New(), Name: "Sam", Role: auth.RoleCashier}
}

func TestCommitSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := cashier()
	p := f.seedProduct(t, "Product A", 10.00, 5)

	sale, err := f.svc.CommitSale(ctx, actor, []LineItem{{ProductID: p.ID, Quantity: 5}})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sale.ID)
	assert.Equal(t, actor.ID, sale.CashierID)
	assert.InDelta(t, 50.00, sale.Subtotal, 0.001)
	assert.InDelta(t, 4.00, sale.Tax, 0.001)
	assert.InDelta(t, 54.00, sale.Total, 0.001)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Product A", sale.Items[0].ProductName)
	assert.Equal(t, 10.00, sale.Items[0].Price)
	assert.Equal(t, 5, sale.Items[0].Quantity)

	got, err := f.catalog.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	history, err := f.svc.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sale.ID, history[0].ID)
}

func TestCommitSale_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Product A", 10.00, 5)

	_, err := f.svc.CommitSale(ctx, cashier(), []LineItem{{ProductID: p.ID, Quantity: 6}})
	assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Product A")

	got, err := f.catalog.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "failed sale must not touch stock")

	history, err := f.svc.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "failed sale must not be recorded")
}

func TestCommitSale_ProductNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Product A", 10.00, 5)

	_, err := f.svc.CommitSale(ctx, cashier(), []LineItem{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: uuid.New(), Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	got, err := f.catalog.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestCommitSale_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, "Product A", 10.00, 5)
	b := f.seedProduct(t, "Product B", 2.50, 1)

	_, err := f.svc.CommitSale(ctx, cashier(), []LineItem{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 2},
	})
	assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Product B")

	gotA, err := f.catalog.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, gotA.Stock, "earlier line items must not be applied")

	gotB, err := f.catalog.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotB.Stock)

	history, err := f.svc.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCommitSale_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Product A", 10.00, 5)

	_, err := f.svc.CommitSale(ctx, cashier(), nil)
	assert.ErrorIs(t, err, ErrEmptySale)

	_, err = f.svc.CommitSale(ctx, cashier(), []LineItem{{ProductID: p.ID, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.CommitSale(ctx, cashier(), []LineItem{{ProductID: p.ID, Quantity: -1}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.CommitSale(ctx, nil, []LineItem{{ProductID: p.ID, Quantity: 1}})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestCommitSale_SnapshotsNameAndPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Burger", 5.99, 50)

	sale, err := f.svc.CommitSale(ctx, cashier(), []LineItem{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	// A later catalog edit must not alter the committed record.
	p.Name = "Cheeseburger"
	p.Price = 7.99
	require.NoError(t, f.catalog.Update(ctx, p))

	history, err := f.svc.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Burger", history[0].Items[0].ProductName)
	assert.Equal(t, 5.99, history[0].Items[0].Price)
	assert.Equal(t, sale.Total, history[0].Total)
}

func TestCommitSale_LastUnitRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Product B", 3.00, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CommitSale(ctx, cashier(), []LineItem{{ProductID: p.ID, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	var successes, failures int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, successes, "exactly one sale wins the last unit")
	assert.Equal(t, 1, failures)

	got, err := f.catalog.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	history, err := f.svc.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCommitSale_ReadersNeverSeePartialCommits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, "Product A", 1.00, 300)
	b := f.seedProduct(t, "Product B", 1.00, 300)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			if _, err := f.svc.CommitSale(ctx, cashier(), []LineItem{
				{ProductID: a.ID, Quantity: 1},
				{ProductID: b.ID, Quantity: 1},
			}); err != nil {
				return
			}
		}
	}()

	// Both line items decrement together, so a concurrent reader must always
	// see the two stocks in lockstep.
	for {
		select {
		case <-done:
			return
		default:
		}
		products, err := f.catalog.List(ctx)
		require.NoError(t, err)
		stock := map[uuid.UUID]int{}
		for _, p := range products {
			stock[p.ID] = p.Stock
		}
		require.Equal(t, stock[a.ID], stock[b.ID], "observed one decrement of a two-item sale without the other")
	}
}

type failingHistoryRepo struct{ err error }

func (r *failingHistoryRepo) Create(ctx context.Context, sale *Sale) error { return r.err }
func (r *failingHistoryRepo) List(ctx context.Context) ([]*Sale, error)    { return nil, nil }

func TestCommitSale_RestoresStockWhenAppendFails(t *testing.T) {
	catalogRepo := catalog.NewMemoryRepository()
	svc := NewService(&failingHistoryRepo{err: errors.New("history unavailable")},
		catalogRepo, catalog.NewLedger(), 0.08, zaptest.NewLogger(t))
	ctx := context.Background()

	p := &catalog.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, Stock: 5}
	require.NoError(t, catalogRepo.Create(ctx, p))

	_, err := svc.CommitSale(ctx, cashier(), []LineItem{{ProductID: p.ID, Quantity: 3}})
	require.Error(t, err)

	got, err := catalogRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "a failed append must not strand decrements")
}

func TestListSales_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := cashier()
	p := f.seedProduct(t, "Coke", 1.99, 75)

	first, err := f.svc.CommitSale(ctx, actor, []LineItem{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	second, err := f.svc.CommitSale(ctx, actor, []LineItem{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	history, err := f.svc.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.False(t, history[0].CreatedAt.Before(history[1].CreatedAt))
}

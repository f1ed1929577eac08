package sales

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/astrapos/astra-pos/internal/modules/auth"
	"github.com/astrapos/astra-pos/internal/modules/catalog"
)

// Service is the sale transaction engine: the only writer that touches
// product stock and sale history together.
type Service interface {
	// CommitSale atomically validates the line items against the catalog,
	// decrements stock and appends an immutable sale record attributed to the
	// actor. It is all-or-nothing: any failure leaves the catalog and the
	// history exactly as they were.
	CommitSale(ctx context.Context, actor *auth.Identity, items []LineItem) (*Sale, error)
	// ListSales returns the sale history, newest first.
	ListSales(ctx context.Context) ([]*Sale, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	ledger  *catalog.Ledger
	taxRate float64
	logger  *zap.Logger
}

// NewService creates the transaction engine. The ledger must be the same
// instance the catalog service mutates under.
func NewService(repo Repository, catalogRepo catalog.Repository, ledger *catalog.Ledger, taxRate float64, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		catalog: catalogRepo,
		ledger:  ledger,
		taxRate: taxRate,
		logger:  logger,
	}
}

func (s *service) CommitSale(ctx context.Context, actor *auth.Identity, items []LineItem) (*Sale, error) {
	if actor == nil {
		return nil, auth.ErrUnauthorized
	}
	if len(items) == 0 {
		return nil, ErrEmptySale
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: got %d for product %s", ErrInvalidQuantity, item.Quantity, item.ProductID)
		}
	}

	// The whole validate-decrement-append sequence runs under the ledger
	// lock, so two sales competing for the last unit cannot both pass
	// validation and readers never see a half-applied commit.
	s.ledger.Lock()
	defer s.ledger.Unlock()

	products := make([]*catalog.Product, len(items))
	for i, item := range items {
		p, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}
			return nil, err
		}
		products[i] = p
	}

	for i, item := range items {
		if item.Quantity > products[i].Stock {
			return nil, fmt.Errorf("%w: %s has %d in stock, requested %d",
				catalog.ErrInsufficientStock, products[i].Name, products[i].Stock, item.Quantity)
		}
	}

	// All decrements land in one repository batch so a reader polling the
	// catalog sees either none of the commit's stock writes or all of them.
	deltas := make([]catalog.StockDelta, len(items))
	for i, item := range items {
		deltas[i] = catalog.StockDelta{ProductID: item.ProductID, Delta: -item.Quantity}
	}
	if err := s.catalog.AdjustStock(ctx, deltas); err != nil {
		return nil, err
	}

	var subtotal float64
	saleItems := make([]SaleItem, len(items))
	for i, item := range items {
		saleItems[i] = SaleItem{
			ProductID:   products[i].ID,
			ProductName: products[i].Name,
			Quantity:    item.Quantity,
			Price:       products[i].Price,
		}
		subtotal += products[i].Price * float64(item.Quantity)
	}

	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * s.taxRate)
	sale := &Sale{
		ID:        uuid.New(),
		CashierID: actor.ID,
		Items:     saleItems,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     roundCents(subtotal + tax),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		// Put the stock back so a failed append does not strand decrements.
		for i := range deltas {
			deltas[i].Delta = -deltas[i].Delta
		}
		if rbErr := s.catalog.AdjustStock(ctx, deltas); rbErr != nil {
			s.logger.Error("restoring stock after failed sale append",
				zap.String("cashier_id", actor.ID.String()),
				zap.Error(rbErr),
			)
		}
		return nil, err
	}

	s.logger.Info("sale committed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("cashier_id", actor.ID.String()),
		zap.Int("line_items", len(sale.Items)),
		zap.Float64("total", sale.Total),
	)
	return sale, nil
}

func (s *service) ListSales(ctx context.Context) ([]*Sale, error) {
	s.ledger.RLock()
	defer s.ledger.RUnlock()
	return s.repo.List(ctx)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

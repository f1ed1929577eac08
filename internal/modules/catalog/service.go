package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/astrapos/astra-pos/internal/modules/auth"
)

// Service defines catalog business logic. Mutations require an authenticated
// actor; there is no delete operation.
type Service interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	CreateProduct(ctx context.Context, actor *auth.Identity, req ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, actor *auth.Identity, id uuid.UUID, req ProductRequest) (*Product, error)
}

// ProductRequest holds the data for creating or replacing a product.
type ProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type service struct {
	repo   Repository
	ledger *Ledger
	logger *zap.Logger
}

// NewService creates the catalog service. Mutations are serialized through
// the shared ledger so they cannot interleave with an in-flight sale commit.
func NewService(repo Repository, ledger *Ledger, logger *zap.Logger) Service {
	return &service{repo: repo, ledger: ledger, logger: logger}
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	s.ledger.RLock()
	defer s.ledger.RUnlock()
	return s.repo.List(ctx)
}

func (s *service) CreateProduct(ctx context.Context, actor *auth.Identity, req ProductRequest) (*Product, error) {
	if actor == nil {
		return nil, auth.ErrUnauthorized
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Product{
		ID:        uuid.New(),
		Name:      req.Name,
		Price:     req.Price,
		Stock:     req.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.ledger.Lock()
	defer s.ledger.Unlock()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("name", p.Name),
		zap.String("actor_id", actor.ID.String()),
	)
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, actor *auth.Identity, id uuid.UUID, req ProductRequest) (*Product, error) {
	if actor == nil {
		return nil, auth.ErrUnauthorized
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	s.ledger.Lock()
	defer s.ledger.Unlock()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Product{
		ID:        id,
		Name:      req.Name,
		Price:     req.Price,
		Stock:     req.Stock,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product updated",
		zap.String("product_id", p.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return p, nil
}

func validate(req ProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	if req.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	return nil
}

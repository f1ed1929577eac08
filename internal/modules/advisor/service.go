package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/astrapos/astra-pos/internal/modules/auth"
	"github.com/astrapos/astra-pos/internal/modules/catalog"
	"github.com/astrapos/astra-pos/internal/modules/sales"
)

// ErrEmptyQuery is returned when the advisory question is blank.
var ErrEmptyQuery = errors.New("query must not be empty")

// Service answers natural-language questions about the shop by handing the
// provider a read-only snapshot of the catalog and sale history. It never
// holds the ledger lock while the provider call is in flight.
type Service interface {
	GenerateInsights(ctx context.Context, actor *auth.Identity, query string) (string, error)
}

type service struct {
	gateway Gateway
	catalog catalog.Repository
	sales   sales.Repository
	ledger  *catalog.Ledger
	logger  *zap.Logger
}

// NewService creates the advisor service.
func NewService(gateway Gateway, catalogRepo catalog.Repository, salesRepo sales.Repository, ledger *catalog.Ledger, logger *zap.Logger) Service {
	return &service{gateway: gateway, catalog: catalogRepo, sales: salesRepo, ledger: ledger, logger: logger}
}

func (s *service) GenerateInsights(ctx context.Context, actor *auth.Identity, query string) (string, error) {
	if actor == nil {
		return "", auth.ErrUnauthorized
	}
	if query == "" {
		return "", ErrEmptyQuery
	}

	// Snapshot under the read lock, released before the provider call.
	s.ledger.RLock()
	products, perr := s.catalog.List(ctx)
	history, herr := s.sales.List(ctx)
	s.ledger.RUnlock()
	if perr != nil {
		return "", perr
	}
	if herr != nil {
		return "", herr
	}

	prompt, err := buildPrompt(query, products, history)
	if err != nil {
		return "", err
	}

	answer, err := s.gateway.GenerateInsights(ctx, prompt)
	if err != nil {
		s.logger.Error("advisor request failed", zap.Error(err))
		return "", err
	}

	s.logger.Info("advisor answered",
		zap.String("actor_id", actor.ID.String()),
		zap.Int("answer_chars", len(answer)),
	)
	return answer, nil
}

func buildPrompt(query string, products []*catalog.Product, history []*sales.Sale) (string, error) {
	productJSON, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", err
	}
	salesJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an expert business analyst for a small retail shop.
Analyze the following data to answer the user's question.
Provide concise, data-driven insights. Do not make up information.
If the data is insufficient to answer, state that.
Today's date is %s.

DATA:
Products (Current Inventory):
%s

Sales History:
%s

USER QUESTION:
%q

YOUR ANALYSIS:`, time.Now().Format("1/2/2006"), productJSON, salesJSON, query), nil
}

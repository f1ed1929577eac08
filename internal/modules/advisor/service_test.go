package advisor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/astrapos/astra-pos/internal/modules/auth"
	"github.com/astrapos/astra-pos/internal/modules/catalog"
	"github.com/astrapos/astra-pos/internal/modules/sales"
)

type stubGateway struct {
	prompt string
	answer string
	err    error
}

func (g *stubGateway) GenerateInsights(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.answer, g.err
}

func newTestService(t *testing.T, gw Gateway) (Service, catalog.Repository, sales.Repository) {
	catalogRepo := catalog.NewMemoryRepository()
	salesRepo := sales.NewMemoryRepository()
	svc := NewService(gw, catalogRepo, salesRepo, catalog.NewLedger(), zaptest.NewLogger(t))
	return svc, catalogRepo, salesRepo
}

func owner() *auth.Identity {
	return &auth.Identity{ID: uuid.New(), Name: "Alex", Role: auth.RoleOwner}
}

func TestGenerateInsights_PromptContainsSnapshots(t *testing.T) {
	gw := &stubGateway{answer: "Stock more fries."}
	svc, catalogRepo, salesRepo := newTestService(t, gw)
	ctx := context.Background()

	require.NoError(t, catalogRepo.Create(ctx, &catalog.Product{
		ID: uuid.New(), Name: "Fries", Price: 2.49, Stock: 100,
	}))
	require.NoError(t, salesRepo.Create(ctx, &sales.Sale{
		ID:    uuid.New(),
		Items: []sales.SaleItem{{ProductName: "Fries", Quantity: 3, Price: 2.49}},
		Total: 8.07,
	}))

	answer, err := svc.GenerateInsights(ctx, owner(), "what should I restock?")
	require.NoError(t, err)
	assert.Equal(t, "Stock more fries.", answer)

	assert.Contains(t, gw.prompt, "what should I restock?")
	assert.Contains(t, gw.prompt, "Fries")
	assert.Contains(t, gw.prompt, "Sales History")
	assert.Contains(t, gw.prompt, "business analyst")
}

func TestGenerateInsights_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGateway{})
	ctx := context.Background()

	_, err := svc.GenerateInsights(ctx, nil, "anything")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = svc.GenerateInsights(ctx, owner(), "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestGenerateInsights_PropagatesGatewayErrors(t *testing.T) {
	svc, _, _ := newTestService(t, &stubGateway{err: ErrNotConfigured})

	_, err := svc.GenerateInsights(context.Background(), owner(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

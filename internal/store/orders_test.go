package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/db/mock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/models"
)

func seededOrder(t *testing.T, s *Store) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, s.db.Where("status = ?", models.OrderStatusPaid).First(&order).Error)
	return order
}

func TestClaimSettlementOnlyOnce(t *testing.T) {
	t.Parallel()
	s, _ := newSeededStore(t)
	ctx := context.Background()
	order := seededOrder(t, s)

	claim, err := s.ClaimSettlement(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, claim.OrderID)
	assert.Equal(t, mock.RestaurantID, claim.RestaurantID)
	require.Len(t, claim.Lines, 4)
	assert.Equal(t, "ticket-1-burger", claim.Lines[0].GroupID)
	assert.Equal(t, claim.Lines[0].GroupID, claim.Lines[1].GroupID)
	assert.Nil(t, claim.Lines[3].RecipeID)

	_, err = s.ClaimSettlement(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderAlreadySettled)

	require.NoError(t, s.ReleaseSettlement(ctx, order.ID))
	_, err = s.ClaimSettlement(ctx, order.ID)
	assert.NoError(t, err)
}

func TestClaimSettlementRejectsUnpaidAndMissingOrders(t *testing.T) {
	t.Parallel()
	s, database := newSeededStore(t)
	ctx := context.Background()

	open := models.Order{RestaurantID: mock.RestaurantID, Status: models.OrderStatusOpen}
	require.NoError(t, database.Create(&open).Error)

	_, err := s.ClaimSettlement(ctx, open.ID)
	assert.ErrorIs(t, err, ErrOrderNotPaid)

	_, err = s.ClaimSettlement(ctx, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSettleSeededOrderThroughEngine(t *testing.T) {
	t.Parallel()
	s, database := newSeededStore(t)
	ctx := context.Background()
	order := seededOrder(t, s)
	engine := stock.NewEngine(s, s, stock.WithDispatchConcurrency(2))

	claim, err := s.ClaimSettlement(ctx, order.ID)
	require.NoError(t, err)

	settlement, reports, err := engine.Settle(ctx, claim.RestaurantID, "order settled", claim.Lines)
	require.NoError(t, err)
	assert.Equal(t, 2, settlement.Plan.Counted)
	assert.Equal(t, 1, settlement.Plan.Duplicates)
	assert.Equal(t, 1, settlement.Plan.Ignored)

	select {
	case report := <-reports:
		assert.Zero(t, report.Failed)
		assert.Len(t, report.Results, 6)
	case <-time.After(5 * time.Second):
		t.Fatal("settlement report not delivered")
	}

	assert.InDelta(t, 39, ingredientByName(t, database, "Brioche bun").StockQuantity, 1e-9)
	assert.InDelta(t, 22, ingredientByName(t, database, "Cola 350ml can").StockQuantity, 1e-9)
	assert.InDelta(t, 5.85, ingredientByName(t, database, "Ground beef").StockQuantity, 1e-9)

	rows, err := s.Adjustments(ctx, settlement.PassID)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

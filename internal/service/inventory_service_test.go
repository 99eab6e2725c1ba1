package service

import (
	"context"
	"testing"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/forecast"
	"go-pos-inventory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, env.category(t, "Household"), "SOAP", "1.50", 10)

	m, err := env.inventory.AdjustStock(&StockAdjustmentRequest{ProductID: p.ID, Type: "IN", Quantity: 5, Note: "recount"}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, 15, m.StockAfter)
	assert.Equal(t, model.ReasonAdjustment, m.Reason)

	m, err = env.inventory.AdjustStock(&StockAdjustmentRequest{ProductID: p.ID, Type: "OUT", Quantity: 3, Note: "damaged"}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, 12, m.StockAfter)

	_, err = env.inventory.AdjustStock(&StockAdjustmentRequest{ProductID: p.ID, Type: "OUT", Quantity: 13, Note: "lost"}, env.admin)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	_, err = env.inventory.AdjustStock(&StockAdjustmentRequest{ProductID: p.ID, Type: "SIDEWAYS", Quantity: 1, Note: "?"}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Equal(t, 12, env.stock(t, p))
	env.ledgerMatches(t, p)
}

func TestForecastFromSales(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Pantry")
	steady := env.product(t, cat, "A-RICE", "2.00", 100)
	fast := env.product(t, cat, "B-OIL", "5.00", 10)
	idle := env.product(t, env.category(t, "Other"), "C-SALT", "0.50", 40)

	sell := func(p *model.Product, qty int) {
		_, err := env.sales.CreateSale(&CreateSaleRequest{
			Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: qty}},
			PaymentMethod: "cash",
		}, env.admin)
		require.NoError(t, err)
	}
	sell(steady, 30)
	sell(fast, 9)

	rows, err := env.inventory.GetForecast(context.Background(), &ForecastQuery{LookbackDays: 30, ForecastDays: 30})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// B-OIL has 1 unit left at 0.3 a day
	assert.Equal(t, fast.ID, rows[0].ProductID)
	assert.Equal(t, forecast.RiskHigh, rows[0].RiskLevel)
	assert.Equal(t, 4, rows[0].DaysUntilStockout)

	assert.Equal(t, steady.ID, rows[1].ProductID)
	assert.Equal(t, 1.0, rows[1].AverageDailyUsage)
	assert.Equal(t, 30.0, rows[1].ForecastedDemand)
	assert.Equal(t, 21, rows[1].RecommendedReorderPoint)
	assert.Equal(t, 70, rows[1].DaysUntilStockout)
	assert.Equal(t, "Pantry", rows[1].CategoryName)
	assert.NotNil(t, rows[1].LastSaleDate)

	assert.Equal(t, idle.ID, rows[2].ProductID)
	assert.Equal(t, forecast.NoStockout, rows[2].DaysUntilStockout)
	assert.Nil(t, rows[2].LastSaleDate)

	filtered, err := env.inventory.GetForecast(context.Background(), &ForecastQuery{CategoryID: idle.CategoryID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, idle.ID, filtered[0].ProductID)

	_, err = env.inventory.GetForecast(context.Background(), &ForecastQuery{Method: "astrology"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Pantry")
	rice := env.product(t, cat, "RICE", "2.00", 100)
	env.product(t, cat, "OIL", "5.00", 3)

	_, err := env.sales.CreateSale(&CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: rice.ID, Quantity: 4}},
		PaymentMethod: "cash",
	}, env.admin)
	require.NoError(t, err)

	overview, err := env.dashboard.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.Stats.TotalProducts)
	assert.Equal(t, int64(1), overview.Stats.LowStockCount)
	assert.Equal(t, "8.00", overview.Stats.TodayRevenue.StringFixed(2))
	assert.Equal(t, int64(1), overview.Stats.TodaySales)
	// 96 x 1.00 + 3 x 2.50
	assert.Equal(t, "103.50", overview.Stats.InventoryValue.StringFixed(2))
	require.Len(t, overview.RecentSales, 1)
	require.Len(t, overview.TopProducts, 1)
	assert.Equal(t, 4, overview.TopProducts[0].QuantitySold)
	require.Len(t, overview.LowStockProducts, 1)
	assert.Equal(t, "OIL", overview.LowStockProducts[0].SKU)

	movement, err := env.dashboard.GetStockMovement(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, movement, 1)
	assert.Equal(t, 103, movement[0].Inbound)
	assert.Equal(t, 4, movement[0].Outbound)

	revenue, err := env.dashboard.GetRevenue(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, "8.00", revenue[0].Revenue.StringFixed(2))
	assert.Equal(t, int64(1), revenue[0].Sales)
	assert.Equal(t, movement[0].Date, revenue[0].Date)
}

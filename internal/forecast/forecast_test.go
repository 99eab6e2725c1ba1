package forecast

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func daily(days, qty int) []SalePoint {
	points := make([]SalePoint, 0, days)
	for d := 0; d < days; d++ {
		points = append(points, SalePoint{At: now.AddDate(0, 0, -d).Add(-time.Hour), Quantity: qty})
	}
	return points
}

func TestComputeMovingAverageExample(t *testing.T) {
	p := Product{ID: uuid.New(), Name: "Tea", CurrentStock: 40}

	row := Compute(p, daily(30, 1), Params{LookbackDays: 30, ForecastDays: 30, Method: MovingAverage, Now: now})

	assert.Equal(t, 30, row.TotalSold)
	assert.Equal(t, 1.0, row.AverageDailyUsage)
	assert.Equal(t, 30.0, row.ForecastedDemand)
	assert.Equal(t, 7, row.SafetyStock)
	assert.Equal(t, 21, row.RecommendedReorderPoint)
	assert.Equal(t, 30, row.RecommendedOrderQuantity)
	assert.Equal(t, 40, row.DaysUntilStockout)
	assert.Equal(t, RiskLow, row.RiskLevel)
	assert.Equal(t, TrendStable, row.Trend)
	require.NotNil(t, row.LastSaleDate)
	assert.Equal(t, now.Add(-time.Hour), *row.LastSaleDate)
}

func TestComputeMethods(t *testing.T) {
	p := Product{ID: uuid.New(), CurrentStock: 10}
	sales := daily(30, 2) // 60 sold, adu = 2

	cases := map[Method]float64{
		MovingAverage:        20,
		ExponentialSmoothing: 22,
		LinearRegression:     24,
		SeasonalAnalysis:     23,
	}
	for method, want := range cases {
		row := Compute(p, sales, Params{LookbackDays: 30, ForecastDays: 10, Method: method, Now: now})
		assert.InDelta(t, want, row.ForecastedDemand, 0.001, string(method))
	}
}

func TestComputeNeverSold(t *testing.T) {
	p := Product{ID: uuid.New(), CurrentStock: 0}

	row := Compute(p, nil, Params{LookbackDays: 30, ForecastDays: 30, Method: MovingAverage, Now: now})

	assert.Equal(t, 0.0, row.AverageDailyUsage)
	assert.Equal(t, NoStockout, row.DaysUntilStockout)
	assert.Equal(t, RiskLow, row.RiskLevel)
	assert.Equal(t, TrendStable, row.Trend)
	assert.Nil(t, row.LastSaleDate)
	assert.Equal(t, 0, row.RecommendedReorderPoint)
}

func TestComputeIgnoresSalesOutsideWindow(t *testing.T) {
	p := Product{ID: uuid.New(), CurrentStock: 5}
	sales := []SalePoint{
		{At: now.AddDate(0, 0, -45), Quantity: 100},
		{At: now.Add(time.Hour), Quantity: 100},
		{At: now.AddDate(0, 0, -2), Quantity: 3},
	}

	row := Compute(p, sales, Params{LookbackDays: 30, ForecastDays: 30, Now: now})

	assert.Equal(t, 3, row.TotalSold)
}

func TestComputeTrend(t *testing.T) {
	p := Product{ID: uuid.New(), CurrentStock: 100}
	params := Params{LookbackDays: 30, ForecastDays: 30, Method: MovingAverage, Now: now}

	increasing := []SalePoint{
		{At: now.AddDate(0, 0, -25), Quantity: 10},
		{At: now.AddDate(0, 0, -5), Quantity: 12},
	}
	assert.Equal(t, TrendIncreasing, Compute(p, increasing, params).Trend)

	decreasing := []SalePoint{
		{At: now.AddDate(0, 0, -25), Quantity: 10},
		{At: now.AddDate(0, 0, -5), Quantity: 8},
	}
	assert.Equal(t, TrendDecreasing, Compute(p, decreasing, params).Trend)

	withinBand := []SalePoint{
		{At: now.AddDate(0, 0, -25), Quantity: 10},
		{At: now.AddDate(0, 0, -5), Quantity: 11},
	}
	assert.Equal(t, TrendStable, Compute(p, withinBand, params).Trend)

	onlyRecent := []SalePoint{{At: now.AddDate(0, 0, -1), Quantity: 1}}
	assert.Equal(t, TrendIncreasing, Compute(p, onlyRecent, params).Trend)
}

func TestComputeRiskLevels(t *testing.T) {
	params := Params{LookbackDays: 10, ForecastDays: 10, Now: now}
	sales := daily(10, 1) // adu = 1

	cases := map[int]Risk{
		0:  RiskCritical,
		3:  RiskCritical,
		4:  RiskHigh,
		7:  RiskHigh,
		8:  RiskMedium,
		14: RiskMedium,
		15: RiskLow,
	}
	for stock, want := range cases {
		row := Compute(Product{ID: uuid.New(), CurrentStock: stock}, sales, params)
		assert.Equal(t, want, row.RiskLevel, "stock %d", stock)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	p := Product{ID: uuid.New(), CurrentStock: 17}
	sales := append(daily(12, 3), SalePoint{At: now.AddDate(0, 0, -20), Quantity: 9})
	params := Params{LookbackDays: 30, ForecastDays: 14, Method: ExponentialSmoothing, Now: now}

	first := Compute(p, sales, params)
	second := Compute(p, sales, params)

	assert.Equal(t, first, second)
}

func TestSortByRiskIsStable(t *testing.T) {
	rows := []Row{
		{SKU: "low-1", RiskLevel: RiskLow},
		{SKU: "crit-1", RiskLevel: RiskCritical},
		{SKU: "med-1", RiskLevel: RiskMedium},
		{SKU: "high-1", RiskLevel: RiskHigh},
		{SKU: "crit-2", RiskLevel: RiskCritical},
		{SKU: "low-2", RiskLevel: RiskLow},
		{SKU: "high-2", RiskLevel: RiskHigh},
	}

	SortByRisk(rows)

	var got []string
	for _, r := range rows {
		got = append(got, r.SKU)
	}
	assert.Equal(t, []string{"crit-1", "crit-2", "high-1", "high-2", "med-1", "low-1", "low-2"}, got)
}

func TestFilterByCategory(t *testing.T) {
	drinks, snacks := uuid.New(), uuid.New()
	rows := []Row{{SKU: "a", CategoryID: drinks}, {SKU: "b", CategoryID: snacks}, {SKU: "c", CategoryID: drinks}}

	assert.Len(t, FilterByCategory(rows, uuid.Nil), 3)

	filtered := FilterByCategory(rows, drinks)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].SKU)
	assert.Equal(t, "c", filtered[1].SKU)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MovingAverage, m)

	m, err = ParseMethod("seasonal_analysis")
	require.NoError(t, err)
	assert.Equal(t, SeasonalAnalysis, m)

	_, err = ParseMethod("neural_net")
	assert.Error(t, err)
}

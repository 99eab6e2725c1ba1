// Package forecast computes per-product inventory forecasts from historical sales.
// Everything here is a pure function of its inputs.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Method string

const (
	MovingAverage        Method = "moving_average"
	ExponentialSmoothing Method = "exponential_smoothing"
	LinearRegression     Method = "linear_regression"
	SeasonalAnalysis     Method = "seasonal_analysis"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type Risk string

const (
	RiskCritical Risk = "critical"
	RiskHigh     Risk = "high"
	RiskMedium   Risk = "medium"
	RiskLow      Risk = "low"
)

// NoStockout is reported as days until stockout when the product does not sell.
const NoStockout = 999

const (
	DefaultLookbackDays = 30
	DefaultForecastDays = 30
	MaxDays             = 365
)

// ParseMethod accepts the four method names; empty selects moving_average.
func ParseMethod(raw string) (Method, error) {
	switch m := Method(raw); m {
	case "":
		return MovingAverage, nil
	case MovingAverage, ExponentialSmoothing, LinearRegression, SeasonalAnalysis:
		return m, nil
	default:
		return "", fmt.Errorf("unknown analysis method %q", raw)
	}
}

// Params controls the window and the projection horizon.
type Params struct {
	LookbackDays int
	ForecastDays int
	Method       Method
	Now          time.Time
}

// Product is the slice of product state the forecast needs.
type Product struct {
	ID           uuid.UUID
	Name         string
	SKU          string
	CategoryID   uuid.UUID
	CategoryName string
	CurrentStock int
}

// SalePoint is one sold quantity of the product at a point in time.
type SalePoint struct {
	At       time.Time
	Quantity int
}

type Row struct {
	ProductID                uuid.UUID  `json:"product_id"`
	ProductName              string     `json:"product_name"`
	SKU                      string     `json:"sku"`
	CategoryID               uuid.UUID  `json:"category_id"`
	CategoryName             string     `json:"category_name,omitempty"`
	CurrentStock             int        `json:"current_stock"`
	TotalSold                int        `json:"total_sold"`
	LastSaleDate             *time.Time `json:"last_sale_date"`
	AverageDailyUsage        float64    `json:"average_daily_usage"`
	ForecastedDemand         float64    `json:"forecasted_demand"`
	Trend                    Trend      `json:"trend"`
	DaysUntilStockout        int        `json:"days_until_stockout"`
	SafetyStock              int        `json:"safety_stock"`
	RecommendedReorderPoint  int        `json:"recommended_reorder_point"`
	RecommendedOrderQuantity int        `json:"recommended_order_quantity"`
	RiskLevel                Risk       `json:"risk_level"`
}

// Compute builds the forecast row for one product. Sale points outside
// [Now-LookbackDays, Now] are ignored.
func Compute(p Product, sales []SalePoint, params Params) Row {
	lookback := params.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	windowStart := params.Now.AddDate(0, 0, -lookback)
	midpoint := windowStart.Add(params.Now.Sub(windowStart) / 2)

	var totalSold, recent, older int
	var lastSale *time.Time
	for i := range sales {
		s := sales[i]
		if s.At.Before(windowStart) || s.At.After(params.Now) {
			continue
		}
		totalSold += s.Quantity
		if s.At.Before(midpoint) {
			older += s.Quantity
		} else {
			recent += s.Quantity
		}
		if lastSale == nil || s.At.After(*lastSale) {
			at := s.At
			lastSale = &at
		}
	}

	adu := float64(totalSold) / float64(lookback)
	daysUntilStockout := NoStockout
	if adu > 0 {
		daysUntilStockout = int(math.Ceil(float64(p.CurrentStock) / adu))
	}
	safetyStock := ceil(adu * 7)

	return Row{
		ProductID:                p.ID,
		ProductName:              p.Name,
		SKU:                      p.SKU,
		CategoryID:               p.CategoryID,
		CategoryName:             p.CategoryName,
		CurrentStock:             p.CurrentStock,
		TotalSold:                totalSold,
		LastSaleDate:             lastSale,
		AverageDailyUsage:        round2(adu),
		ForecastedDemand:         round2(demand(params.Method, adu, totalSold, lookback, params.ForecastDays)),
		Trend:                    classifyTrend(recent, older),
		DaysUntilStockout:        daysUntilStockout,
		SafetyStock:              safetyStock,
		RecommendedReorderPoint:  ceil(adu*14) + safetyStock,
		RecommendedOrderQuantity: ceil(adu * 30),
		RiskLevel:                riskFor(daysUntilStockout),
	}
}

func demand(method Method, adu float64, totalSold, lookback, forecastDays int) float64 {
	days := float64(forecastDays)
	switch method {
	case ExponentialSmoothing:
		return adu * days * 1.1
	case LinearRegression:
		return (float64(totalSold) * 1.2 / float64(lookback)) * days
	case SeasonalAnalysis:
		return adu * days * 1.15
	default:
		return adu * days
	}
}

func classifyTrend(recent, older int) Trend {
	r, o := float64(recent), float64(older)
	switch {
	case r > o*1.1:
		return TrendIncreasing
	case r < o*0.9:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func riskFor(daysUntilStockout int) Risk {
	switch {
	case daysUntilStockout <= 3:
		return RiskCritical
	case daysUntilStockout <= 7:
		return RiskHigh
	case daysUntilStockout <= 14:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskRank orders risk levels from most to least urgent.
func RiskRank(r Risk) int {
	switch r {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	default:
		return 3
	}
}

// SortByRisk orders rows critical first. Rows with the same risk keep their input order.
func SortByRisk(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return RiskRank(rows[i].RiskLevel) < RiskRank(rows[j].RiskLevel)
	})
}

// FilterByCategory keeps rows of the given category. uuid.Nil keeps everything.
func FilterByCategory(rows []Row, categoryID uuid.UUID) []Row {
	if categoryID == uuid.Nil {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.CategoryID == categoryID {
			out = append(out, r)
		}
	}
	return out
}

func ceil(v float64) int {
	return int(math.Ceil(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

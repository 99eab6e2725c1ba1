package repository

import (
	"time"

	"go-pos-inventory/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatsRepository interface {
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats(now time.Time) (*DashboardStats, error)
	GetRevenueSeries(startDate, endDate time.Time) ([]RevenuePoint, error)
}

// StockMovementData is one day of the stock movement chart
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// RevenuePoint is one day of the sales chart
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int64           `json:"sales"`
}

// DashboardStats is the overview block of the dashboard
type DashboardStats struct {
	TotalProducts    int64           `json:"total_products"`
	LowStockCount    int64           `json:"low_stock_count"`
	OutOfStockCount  int64           `json:"out_of_stock_count"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	TodaySales       int64           `json:"today_sales"`
	MonthRevenue     decimal.Decimal `json:"month_revenue"`
	MonthSales       int64           `json:"month_sales"`
	TotalCustomers   int64           `json:"total_customers"`
	PendingPurchases int64           `json:"pending_purchases"`
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

func (r *statsRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *statsRepo) GetRevenueSeries(startDate, endDate time.Time) ([]RevenuePoint, error) {
	var results []RevenuePoint

	rows, err := r.db.Model(&model.Sale{}).
		Select("DATE(created_at) as date, COALESCE(SUM(total), 0) as revenue, COUNT(*) as sales").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			point   RevenuePoint
			revenue decimal.NullDecimal
		)
		if err := rows.Scan(&point.Date, &revenue, &point.Sales); err != nil {
			return nil, err
		}
		point.Revenue = revenue.Decimal.Round(2)
		results = append(results, point)
	}

	return results, rows.Err()
}

func (r *statsRepo) GetDashboardStats(now time.Time) (*DashboardStats, error) {
	var stats DashboardStats

	products := r.db.Model(&model.Product{}).Where("is_active = ?", true)
	if err := products.Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= alert_threshold", true).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity = 0", true).
		Count(&stats.OutOfStockCount).Error; err != nil {
		return nil, err
	}

	var valuation decimal.NullDecimal
	if err := r.db.Table("products").
		Select("SUM(stock_quantity * cost)").
		Where("is_active = ? AND deleted_at IS NULL", true).
		Row().Scan(&valuation); err != nil {
		return nil, err
	}
	stats.InventoryValue = valuation.Decimal.Round(2)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var err error
	if stats.TodayRevenue, stats.TodaySales, err = r.revenueSince(startOfDay, now); err != nil {
		return nil, err
	}
	if stats.MonthRevenue, stats.MonthSales, err = r.revenueSince(startOfMonth, now); err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Purchase{}).
		Where("status = ?", model.PurchasePending).
		Count(&stats.PendingPurchases).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *statsRepo) revenueSince(from, to time.Time) (decimal.Decimal, int64, error) {
	var count int64
	query := r.db.Model(&model.Sale{}).Where("created_at BETWEEN ? AND ?", from, to)
	if err := query.Count(&count).Error; err != nil {
		return decimal.Zero, 0, err
	}

	var revenue decimal.NullDecimal
	if err := r.db.Table("sales").
		Select("SUM(total)").
		Where("deleted_at IS NULL AND created_at BETWEEN ? AND ?", from, to).
		Row().Scan(&revenue); err != nil {
		return decimal.Zero, 0, err
	}
	return revenue.Decimal, count, nil
}

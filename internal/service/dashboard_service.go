package service

import (
	"context"
	"fmt"
	"time"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/logger"

	"go.uber.org/zap"
)

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetRevenue(ctx context.Context, days int) ([]repository.RevenuePoint, error)
	GetDashboardStats(ctx context.Context) (*DashboardOverview, error)
}

// DashboardOverview is everything the dashboard landing page shows
type DashboardOverview struct {
	Stats            *repository.DashboardStats `json:"stats"`
	RecentSales      []model.Sale               `json:"recent_sales"`
	TopProducts      []repository.TopProduct    `json:"top_products"`
	LowStockProducts []model.Product            `json:"low_stock_products"`
}

type dashboardService struct {
	statsRepo   repository.StatsRepository
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	cache       cache.Cache
	cacheTTL    time.Duration
}

func NewDashboardService(
	statsRepo repository.StatsRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) DashboardService {
	return &dashboardService{
		statsRepo:   statsRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
	}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	days = clampDays(days)
	key := fmt.Sprintf("%smovement:%d", cache.PrefixDashboard, days)

	var data []repository.StockMovementData
	if s.cached(ctx, key, &data) {
		return data, nil
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	data, err := s.statsRepo.GetStockMovement(startDate, endDate)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.store(ctx, key, data)
	return data, nil
}

func (s *dashboardService) GetRevenue(ctx context.Context, days int) ([]repository.RevenuePoint, error) {
	days = clampDays(days)
	key := fmt.Sprintf("%srevenue:%d", cache.PrefixDashboard, days)

	var data []repository.RevenuePoint
	if s.cached(ctx, key, &data) {
		return data, nil
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	data, err := s.statsRepo.GetRevenueSeries(startDate, endDate)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.store(ctx, key, data)
	return data, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardOverview, error) {
	key := cache.PrefixDashboard + "stats"

	var overview DashboardOverview
	if s.cached(ctx, key, &overview) {
		return &overview, nil
	}

	now := time.Now()
	stats, err := s.statsRepo.GetDashboardStats(now)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	recent, err := s.saleRepo.FindRecent(5)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	top, err := s.saleRepo.TopSelling(now.AddDate(0, 0, -30), now, 5)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	lowStock, err := s.productRepo.FindLowStock(10)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	overview = DashboardOverview{
		Stats:            stats,
		RecentSales:      recent,
		TopProducts:      top,
		LowStockProducts: lowStock,
	}
	s.store(ctx, key, overview)
	return &overview, nil
}

func (s *dashboardService) cached(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Get().Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *dashboardService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logger.Get().Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func clampDays(days int) int {
	if days <= 0 {
		return 7
	}
	if days > 365 {
		return 365
	}
	return days
}

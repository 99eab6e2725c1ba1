package service

import (
	"context"
	"fmt"
	"time"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/forecast"
	"go-pos-inventory/internal/metrics"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	AdjustStock(req *StockAdjustmentRequest, actor *auth.Identity) (*model.StockMovement, error)
	GetMovements(filter repository.MovementFilter) ([]model.StockMovement, error)
	GetForecast(ctx context.Context, query *ForecastQuery) ([]forecast.Row, error)
}

// StockAdjustmentRequest is a manual stock correction: counts, damage, returns
type StockAdjustmentRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Type      string    `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Note      string    `json:"note" validate:"required,max=255"`
}

type ForecastQuery struct {
	LookbackDays int       `json:"lookback_days" validate:"gte=0,lte=365"`
	ForecastDays int       `json:"forecast_days" validate:"gte=0,lte=365"`
	Method       string    `json:"analysis_method"`
	CategoryID   uuid.UUID `json:"category_id"`
}

type inventoryService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	saleRepo     repository.SaleRepository
	events       *events.Dispatcher
	cache        cache.Cache
	cacheTTL     time.Duration
}

func NewInventoryService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
	dispatcher *events.Dispatcher,
	c cache.Cache,
	cacheTTL time.Duration,
) InventoryService {
	return &inventoryService{
		db:           db,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		saleRepo:     saleRepo,
		events:       dispatcher,
		cache:        c,
		cacheTTL:     cacheTTL,
	}
}

func (s *inventoryService) AdjustStock(req *StockAdjustmentRequest, actor *auth.Identity) (*model.StockMovement, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}

	movement := &model.StockMovement{
		ProductID: product.ID,
		Type:      model.MovementType(req.Type),
		Reason:    model.ReasonAdjustment,
		Quantity:  req.Quantity,
		Note:      req.Note,
		UserID:    userIDOf(actor),
	}
	movement.CreatedBy = actorID(actor)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if movement.Type == model.MovementIn {
			after, err := s.productRepo.IncrementStock(tx, product.ID, req.Quantity)
			if err != nil {
				return err
			}
			movement.StockAfter = after
		} else {
			after, ok, err := s.productRepo.DecrementStock(tx, product.ID, req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				var available int
				if err := tx.Model(&model.Product{}).Select("stock_quantity").Where("id = ?", product.ID).Scan(&available).Error; err != nil {
					return err
				}
				return apperr.InsufficientStock(product.Name, available, req.Quantity)
			}
			movement.StockAfter = after
		}
		return s.movementRepo.Record(tx, movement)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}

	metrics.StockUnitsMovedTotal.WithLabelValues(string(movement.Type), string(movement.Reason)).Add(float64(movement.Quantity))
	invalidate(s.cache, cache.PrefixDashboard, cache.PrefixForecast)

	s.events.Emit(events.Event{
		Type:    events.StockAdjusted,
		Key:     product.ID.String(),
		Message: fmt.Sprintf("%s adjusted '%s' stock %s %d", actorName(actor), product.Name, movement.Type, movement.Quantity),
		Actor:   actorOf(actor),
		Data: map[string]interface{}{
			"id":        product.ID,
			"sku":       product.SKU,
			"name":      product.Name,
			"old_stock": product.StockQuantity,
			"new_stock": movement.StockAfter,
			"type":      movement.Type,
			"quantity":  movement.Quantity,
		},
	})
	if movement.StockAfter <= product.AlertThreshold {
		s.events.Emit(events.Event{
			Type:    events.StockLow,
			Key:     product.ID.String(),
			Message: fmt.Sprintf("'%s' is low on stock (%d left)", product.Name, movement.StockAfter),
			Data: map[string]interface{}{
				"id":              product.ID,
				"sku":             product.SKU,
				"name":            product.Name,
				"stock":           movement.StockAfter,
				"alert_threshold": product.AlertThreshold,
			},
		})
	}

	return movement, nil
}

func (s *inventoryService) GetMovements(filter repository.MovementFilter) ([]model.StockMovement, error) {
	movements, err := s.movementRepo.FindAll(filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return movements, nil
}

// GetForecast projects demand for every active product and returns the rows sorted by risk.
func (s *inventoryService) GetForecast(ctx context.Context, query *ForecastQuery) ([]forecast.Row, error) {
	if err := validate(query); err != nil {
		return nil, err
	}
	method, err := forecast.ParseMethod(query.Method)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	params := forecast.Params{
		LookbackDays: query.LookbackDays,
		ForecastDays: query.ForecastDays,
		Method:       method,
		Now:          time.Now(),
	}
	if params.LookbackDays == 0 {
		params.LookbackDays = forecast.DefaultLookbackDays
	}
	if params.ForecastDays == 0 {
		params.ForecastDays = forecast.DefaultForecastDays
	}

	key := fmt.Sprintf("%s%d:%d:%s:%s", cache.PrefixForecast, params.LookbackDays, params.ForecastDays, method, query.CategoryID)
	var rows []forecast.Row
	if hit, err := s.cache.Get(ctx, key, &rows); err != nil {
		logger.Get().Warn("forecast cache read failed", zap.Error(err))
	} else if hit {
		return rows, nil
	}

	started := time.Now()
	products, err := s.productRepo.FindAll(repository.ProductFilter{ActiveOnly: true, CategoryID: query.CategoryID})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	from := params.Now.AddDate(0, 0, -params.LookbackDays)
	points, err := s.saleRepo.SalePoints(from, params.Now)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	rows = make([]forecast.Row, 0, len(products))
	for _, p := range products {
		fp := forecast.Product{
			ID:           p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			CategoryID:   p.CategoryID,
			CurrentStock: p.StockQuantity,
		}
		if p.Category != nil {
			fp.CategoryName = p.Category.Name
		}
		rows = append(rows, forecast.Compute(fp, points[p.ID], params))
	}
	rows = forecast.FilterByCategory(rows, query.CategoryID)
	forecast.SortByRisk(rows)
	metrics.ForecastDuration.Observe(time.Since(started).Seconds())

	if err := s.cache.Set(ctx, key, rows, s.cacheTTL); err != nil {
		logger.Get().Warn("forecast cache write failed", zap.Error(err))
	}
	return rows, nil
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/metrics"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/order"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(req *ProductRequest, actor *auth.Identity) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *ProductRequest, actor *auth.Identity) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor *auth.Identity) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetAllProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductLabel(id uuid.UUID) (*model.ProductLabel, error)

	CreateCategory(req *CategoryRequest, actor *auth.Identity) (*model.Category, error)
	UpdateCategory(id uuid.UUID, req *CategoryRequest, actor *auth.Identity) (*model.Category, error)
	DeleteCategory(id uuid.UUID, actor *auth.Identity) error
	GetCategory(id uuid.UUID) (*model.Category, error)
	GetAllCategories() ([]model.Category, error)
}

type ProductRequest struct {
	SKU            string          `json:"sku" validate:"required,max=50"`
	Name           string          `json:"name" validate:"required,max=255"`
	Description    string          `json:"description"`
	Barcode        string          `json:"barcode" validate:"max=64"`
	Price          decimal.Decimal `json:"price" validate:"gte=0"`
	Cost           decimal.Decimal `json:"cost" validate:"gte=0"`
	MRP            decimal.Decimal `json:"mrp" validate:"gte=0"`
	StockQuantity  int             `json:"stock_quantity" validate:"gte=0"` // opening stock, ignored on update
	AlertThreshold *int            `json:"alert_threshold" validate:"omitempty,gte=0"`
	CategoryID     uuid.UUID       `json:"category_id" validate:"uuid_required"`
	IsActive       *bool           `json:"is_active"`
	Weight         decimal.Decimal `json:"weight" validate:"gte=0"`
	WeightUnit     string          `json:"weight_unit" validate:"omitempty,oneof=g kg ml l pcs"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type catalogService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.MovementRepository
	settingRepo  repository.SettingRepository
	events       *events.Dispatcher
	cache        cache.Cache
}

func NewCatalogService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.MovementRepository,
	settingRepo repository.SettingRepository,
	dispatcher *events.Dispatcher,
	c cache.Cache,
) CatalogService {
	return &catalogService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		settingRepo:  settingRepo,
		events:       dispatcher,
		cache:        c,
	}
}

func validateProduct(req *ProductRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	amounts := []struct {
		field string
		value decimal.Decimal
	}{{"price", req.Price}, {"cost", req.Cost}, {"mrp", req.MRP}}
	for _, a := range amounts {
		if !order.IsCents(a.value) {
			return apperr.Validationf("%s cannot have more than two decimal places", a.field)
		}
	}
	return nil
}

func (s *catalogService) CreateProduct(req *ProductRequest, actor *auth.Identity) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, apperr.FromDB(err, "category")
	}

	existing, err := s.productRepo.FindBySKU(strings.TrimSpace(req.SKU))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Validation("SKU already exists")
	}

	threshold := 0
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	} else {
		settings, err := s.settingRepo.Get()
		if err != nil {
			return nil, apperr.Internal(err)
		}
		threshold = settings.LowStockThreshold
	}

	product := &model.Product{IsActive: true}
	applyProductRequest(product, req)
	product.AlertThreshold = threshold
	product.StockQuantity = req.StockQuantity
	product.CreatedBy = actorID(actor)
	product.UpdatedBy = actorID(actor)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category").Create(product).Error; err != nil {
			return err
		}
		// Columns with a database default ignore Go zero values on insert
		if err := tx.Model(product).Updates(map[string]interface{}{
			"is_active":       product.IsActive,
			"alert_threshold": product.AlertThreshold,
		}).Error; err != nil {
			return err
		}

		if product.StockQuantity == 0 {
			return nil
		}
		// Opening stock goes through the ledger like any other movement
		return s.movementRepo.Record(tx, &model.StockMovement{
			ProductID:  product.ID,
			Type:       model.MovementIn,
			Reason:     model.ReasonAdjustment,
			Quantity:   product.StockQuantity,
			StockAfter: product.StockQuantity,
			Note:       "opening stock",
			UserID:     userIDOf(actor),
			BaseModel:  model.BaseModel{CreatedBy: actorID(actor)},
		})
	})
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}

	if product.StockQuantity > 0 {
		metrics.StockUnitsMovedTotal.WithLabelValues(string(model.MovementIn), string(model.ReasonAdjustment)).Add(float64(product.StockQuantity))
	}
	s.emitProduct(events.ProductCreated, product, actor, fmt.Sprintf("%s created product '%s'", actorName(actor), product.Name))

	return s.GetProduct(product.ID)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *ProductRequest, actor *auth.Identity) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}

	if req.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
			return nil, apperr.FromDB(err, "category")
		}
	}

	if sku := strings.TrimSpace(req.SKU); sku != product.SKU {
		existing, err := s.productRepo.FindBySKU(sku)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal(err)
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperr.Validation("SKU already exists")
		}
	}

	applyProductRequest(product, req)
	if req.AlertThreshold != nil {
		product.AlertThreshold = *req.AlertThreshold
	}
	product.Category = nil
	product.UpdatedBy = actorID(actor)

	if err := s.productRepo.Update(product); err != nil {
		return nil, apperr.FromDB(err, "product")
	}

	s.emitProduct(events.ProductUpdated, product, actor, fmt.Sprintf("%s updated product '%s'", actorName(actor), product.Name))

	return s.GetProduct(id)
}

func (s *catalogService) DeleteProduct(id uuid.UUID, actor *auth.Identity) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return apperr.FromDB(err, "product")
	}

	referenced, err := s.productRepo.IsReferenced(id)
	if err != nil {
		return apperr.Internal(err)
	}
	if referenced {
		return apperr.Validation("product has sales, purchases or stock history; deactivate it instead")
	}

	if err := s.productRepo.Delete(id); err != nil {
		return apperr.FromDB(err, "product")
	}

	s.emitProduct(events.ProductDeleted, product, actor, fmt.Sprintf("%s deleted product '%s'", actorName(actor), product.Name))
	return nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	return product, nil
}

func (s *catalogService) GetAllProducts(filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *catalogService) GetProductLabel(id uuid.UUID) (*model.ProductLabel, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingRepo.Get()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	label := product.ToLabel(settings)
	return &label, nil
}

func (s *catalogService) CreateCategory(req *CategoryRequest, actor *auth.Identity) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if existing, _ := s.categoryRepo.FindByName(name); existing != nil {
		return nil, apperr.Validation("category already exists")
	}

	category := &model.Category{Name: name, Description: req.Description}
	category.CreatedBy = actorID(actor)
	category.UpdatedBy = actorID(actor)

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, apperr.FromDB(err, "category")
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *CategoryRequest, actor *auth.Identity) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "category")
	}

	name := strings.TrimSpace(req.Name)
	if existing, _ := s.categoryRepo.FindByName(name); existing != nil && existing.ID != id {
		return nil, apperr.Validation("category already exists")
	}

	category.Name = name
	category.Description = req.Description
	category.UpdatedBy = actorID(actor)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, apperr.FromDB(err, "category")
	}

	invalidate(s.cache, cache.PrefixForecast)
	return category, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID, actor *auth.Identity) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return apperr.FromDB(err, "category")
	}

	count, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return apperr.Internal(err)
	}
	if count > 0 {
		return apperr.Validationf("category is used by %d product(s)", count)
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return apperr.FromDB(err, "category")
	}
	return nil
}

func (s *catalogService) GetCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "category")
	}
	return category, nil
}

func (s *catalogService) GetAllCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *catalogService) emitProduct(eventType string, product *model.Product, actor *auth.Identity, message string) {
	invalidate(s.cache, cache.PrefixDashboard, cache.PrefixForecast)
	s.events.Emit(events.Event{
		Type:    eventType,
		Key:     product.ID.String(),
		Message: message,
		Actor:   actorOf(actor),
		Data: map[string]interface{}{
			"id":     product.ID,
			"sku":    product.SKU,
			"name":   product.Name,
			"stock":  product.StockQuantity,
			"price":  product.Price,
			"active": product.IsActive,
		},
	})
}

func applyProductRequest(product *model.Product, req *ProductRequest) {
	product.SKU = strings.TrimSpace(req.SKU)
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Barcode = strings.TrimSpace(req.Barcode)
	product.Price = req.Price.Round(2)
	product.Cost = req.Cost.Round(2)
	product.MRP = req.MRP.Round(2)
	product.CategoryID = req.CategoryID
	product.Weight = req.Weight.Round(3)
	product.WeightUnit = req.WeightUnit
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
}

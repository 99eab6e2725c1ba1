package repository

import (
	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Search     string
	CategoryID uuid.UUID
	ActiveOnly bool
	LowStock   bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindLowStock(limit int) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	IsReferenced(id uuid.UUID) (bool, error)
	CountByCategory(categoryID uuid.UUID) (int64, error)
	// Stock mutations run inside the caller's transaction and return the stock after the change.
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty int) (int, bool, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, qty int) (int, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	query := r.db.Preload("Category")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?) OR barcode = ?", like, like, filter.Search)
	}
	if filter.CategoryID != uuid.Nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.LowStock {
		query = query.Where("stock_quantity <= alert_threshold")
	}
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = ? AND stock_quantity <= alert_threshold", true).
		Order("stock_quantity ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	// stock_quantity is owned by the stock ledger and never written from here
	return r.db.Model(product).Select("*").Omit("stock_quantity", "created_at", "created_by", "Category").Updates(product).Error
}

// Delete removes the row for good; callers check IsReferenced first
func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Unscoped().Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) IsReferenced(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&model.SaleItem{}).Unscoped().Where("product_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&model.PurchaseItem{}).Unscoped().Where("product_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err := r.db.Model(&model.StockMovement{}).Unscoped().Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) CountByCategory(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Unscoped().Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// DecrementStock is an atomic conditional decrement. The bool is false when the product
// has less than qty in stock, in which case nothing changed.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty int) (int, bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	stock, err := currentStock(tx, id)
	return stock, true, err
}

func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, qty int) (int, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return currentStock(tx, id)
}

func currentStock(tx *gorm.DB, id uuid.UUID) (int, error) {
	var stock int
	err := tx.Model(&model.Product{}).Select("stock_quantity").Where("id = ?", id).Scan(&stock).Error
	return stock, err
}

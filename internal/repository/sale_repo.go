package repository

import (
	"time"

	"go-pos-inventory/internal/forecast"
	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleFilter struct {
	From       *time.Time
	To         *time.Time
	UserID     uuid.UUID
	CustomerID uuid.UUID
	Limit      int
	Offset     int
}

// TopProduct is one row of the best sellers report
type TopProduct struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindAll(filter SaleFilter) ([]model.Sale, int64, error)
	FindRecent(limit int) ([]model.Sale, error)
	TopSelling(from, to time.Time, limit int) ([]TopProduct, error)
	// SalePoints returns the sold quantities per product between from and to
	SalePoints(from, to time.Time) (map[uuid.UUID][]forecast.SalePoint, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("User").Preload("Customer").First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	query := r.db.Model(&model.Sale{})
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := query.Preload("Items").Preload("User").Preload("Customer").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) FindRecent(limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("User").Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) TopSelling(from, to time.Time, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.Table("sale_items").
		Select(`sale_items.product_id,
			MAX(sale_items.product_name) AS product_name,
			MAX(sale_items.sku) AS sku,
			SUM(sale_items.quantity) AS quantity_sold,
			COALESCE(SUM(sale_items.subtotal), 0) AS revenue`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.deleted_at IS NULL AND sale_items.deleted_at IS NULL").
		Where("sales.created_at BETWEEN ? AND ?", from, to).
		Group("sale_items.product_id").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type salePointRow struct {
	ProductID uuid.UUID
	CreatedAt time.Time
	Quantity  int
}

func (r *saleRepo) SalePoints(from, to time.Time) (map[uuid.UUID][]forecast.SalePoint, error) {
	var rows []salePointRow
	err := r.db.Table("sale_items").
		Select("sale_items.product_id, sales.created_at, sale_items.quantity").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.deleted_at IS NULL AND sale_items.deleted_at IS NULL").
		Where("sales.created_at BETWEEN ? AND ?", from, to).
		Order("sales.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	points := make(map[uuid.UUID][]forecast.SalePoint)
	for _, row := range rows {
		points[row.ProductID] = append(points[row.ProductID], forecast.SalePoint{At: row.CreatedAt, Quantity: row.Quantity})
	}
	return points, nil
}

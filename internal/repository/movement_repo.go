package repository

import (
	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementFilter struct {
	ProductID uuid.UUID
	Reason    model.MovementReason
	Limit     int
}

type MovementRepository interface {
	Record(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(filter MovementFilter) ([]model.StockMovement, error)
	// NetQuantity sums IN minus OUT for a product across the whole ledger
	NetQuantity(productID uuid.UUID) (int, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Record(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll(filter MovementFilter) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	query := r.db.Preload("Product")
	if filter.ProductID != uuid.Nil {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Reason != "" {
		query = query.Where("reason = ?", filter.Reason)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) NetQuantity(productID uuid.UUID) (int, error) {
	var net int
	err := r.db.Model(&model.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)").
		Where("product_id = ?", productID).
		Scan(&net).Error
	return net, err
}

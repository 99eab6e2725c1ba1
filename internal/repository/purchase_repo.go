package repository

import (
	"time"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseFilter struct {
	Status     model.PurchaseStatus
	SupplierID uuid.UUID
}

type PurchaseRepository interface {
	Create(purchase *model.Purchase) error
	FindByID(id uuid.UUID) (*model.Purchase, error)
	FindAll(filter PurchaseFilter) ([]model.Purchase, error)
	CountByStatus(status model.PurchaseStatus) (int64, error)
	// TransitionStatus moves the purchase from one status to another inside tx.
	// It returns false when the purchase was not in the expected status, so
	// two concurrent receipts can never both succeed.
	TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to model.PurchaseStatus, receivedDate *time.Time, updatedBy string) (bool, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(purchase *model.Purchase) error {
	// Header and items are inserted in one transaction by GORM
	return r.db.Create(purchase).Error
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.Preload("Items").Preload("Supplier").Preload("User").First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) FindAll(filter PurchaseFilter) ([]model.Purchase, error) {
	var purchases []model.Purchase
	query := r.db.Preload("Items").Preload("Supplier").Preload("User")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != uuid.Nil {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	err := query.Order("order_date DESC, created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) CountByStatus(status model.PurchaseStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Purchase{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *purchaseRepo) TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to model.PurchaseStatus, receivedDate *time.Time, updatedBy string) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_by": updatedBy,
	}
	if receivedDate != nil {
		updates["received_date"] = *receivedDate
	}
	res := tx.Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

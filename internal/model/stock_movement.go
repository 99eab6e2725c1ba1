package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonPurchase   MovementReason = "purchase"
	ReasonAdjustment MovementReason = "adjustment"
)

// StockMovement is the stock ledger. Every change to Product.StockQuantity writes one row
// in the same database transaction.
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product       `json:"product,omitempty"`
	Type        MovementType   `gorm:"type:varchar(10);not null" json:"type"`
	Reason      MovementReason `gorm:"type:varchar(20);not null" json:"reason"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	StockAfter  int            `gorm:"not null" json:"stock_after"`
	ReferenceID *uuid.UUID     `gorm:"type:uuid;index" json:"reference_id,omitempty"` // sale or purchase id
	Note        string         `json:"note,omitempty"`
	UserID      uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
}

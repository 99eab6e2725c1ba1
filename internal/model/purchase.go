package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseReceived  PurchaseStatus = "received"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// CanTransitionTo reports whether the status change is allowed.
// Only pending purchases move, and only to received or cancelled.
func (s PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	return s == PurchasePending && (next == PurchaseReceived || next == PurchaseCancelled)
}

// Purchase is a stock order placed with a supplier
type Purchase struct {
	BaseModel
	ReferenceNumber string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"reference_number"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier        *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderDate       time.Time       `gorm:"not null" json:"order_date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	ReceivedDate    *time.Time      `json:"received_date,omitempty"`
	Status          PurchaseStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
	Discount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_cost"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items           []PurchaseItem  `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// PurchaseItem is one line of a purchase. Subtotal = Quantity * UnitCost.
type PurchaseItem struct {
	BaseModel
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

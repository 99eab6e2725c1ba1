package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU            string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`
	Barcode        string          `gorm:"type:varchar(64);index" json:"barcode,omitempty"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Cost           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	MRP            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"mrp"`
	StockQuantity  int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	AlertThreshold int             `gorm:"not null;default:5" json:"alert_threshold"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category       *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	Weight         decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"weight"`
	WeightUnit     string          `gorm:"type:varchar(10)" json:"weight_unit,omitempty"`
}

// IsLowStock reports whether stock is at or under the alert threshold
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.AlertThreshold
}

// Category groups products. Must exist before a product references it.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// ProductLabel is the print-ready data for a shelf label. Rendering happens client side.
type ProductLabel struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode"`
	Price      decimal.Decimal `json:"price"`
	MRP        decimal.Decimal `json:"mrp"`
	Weight     decimal.Decimal `json:"weight"`
	WeightUnit string          `json:"weight_unit,omitempty"`
	Currency   string          `json:"currency"`
	StoreName  string          `json:"store_name"`
}

// ToLabel builds label data. The barcode falls back to the SKU.
func (p *Product) ToLabel(settings *Setting) ProductLabel {
	barcode := p.Barcode
	if barcode == "" {
		barcode = p.SKU
	}
	return ProductLabel{
		ProductID:  p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Barcode:    barcode,
		Price:      p.Price,
		MRP:        p.MRP,
		Weight:     p.Weight,
		WeightUnit: p.WeightUnit,
		Currency:   settings.Currency,
		StoreName:  settings.BusinessName,
	}
}

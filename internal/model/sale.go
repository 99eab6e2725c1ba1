package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentEWallet  PaymentMethod = "ewallet"
)

// Sale is the header of a point-of-sale order. Total = Subtotal + Tax - Discount.
type Sale struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"invoice_number"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`
	ChangeDue     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"change_due"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem is one line of a sale. Subtotal = Quantity * UnitPrice.
type SaleItem struct {
	BaseModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	SKU         string          `gorm:"type:varchar(50)" json:"sku"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// Receipt is the print-ready view of a sale. Rendering happens client side.
type Receipt struct {
	BusinessName    string          `json:"business_name"`
	BusinessAddress string          `json:"business_address,omitempty"`
	BusinessPhone   string          `json:"business_phone,omitempty"`
	Currency        string          `json:"currency"`
	InvoiceNumber   string          `json:"invoice_number"`
	IssuedAt        time.Time       `json:"issued_at"`
	Cashier         string          `json:"cashier"`
	CustomerName    string          `json:"customer_name,omitempty"`
	Lines           []ReceiptLine   `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	ChangeDue       decimal.Decimal `json:"change_due"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Footer          string          `json:"footer,omitempty"`
}

type ReceiptLine struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ToReceipt combines the sale with business settings
func (s *Sale) ToReceipt(settings *Setting) Receipt {
	receipt := Receipt{
		BusinessName:    settings.BusinessName,
		BusinessAddress: settings.Address,
		BusinessPhone:   settings.Phone,
		Currency:        settings.Currency,
		InvoiceNumber:   s.InvoiceNumber,
		IssuedAt:        s.CreatedAt,
		Subtotal:        s.Subtotal,
		Tax:             s.Tax,
		Discount:        s.Discount,
		Total:           s.Total,
		AmountPaid:      s.AmountPaid,
		ChangeDue:       s.ChangeDue,
		PaymentMethod:   s.PaymentMethod,
		Footer:          settings.ReceiptFooter,
		Lines:           make([]ReceiptLine, len(s.Items)),
	}
	if s.User != nil {
		receipt.Cashier = s.User.FullName
	}
	if s.Customer != nil {
		receipt.CustomerName = s.Customer.Name
	}
	for i, item := range s.Items {
		receipt.Lines[i] = ReceiptLine{
			Name:      item.ProductName,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}
	return receipt
}

package model

import "github.com/shopspring/decimal"

// SettingsKey is the primary key of the single business settings row
const SettingsKey = "business"

// Setting holds business-wide configuration persisted in the database.
type Setting struct {
	Key               string          `gorm:"type:varchar(30);primaryKey" json:"-"`
	BusinessName      string          `gorm:"type:varchar(255)" json:"business_name"`
	Address           string          `gorm:"type:text" json:"address"`
	Phone             string          `gorm:"type:varchar(30)" json:"phone"`
	Email             string          `gorm:"type:varchar(255)" json:"email"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	CurrencySymbol    string          `gorm:"type:varchar(5);default:'$'" json:"currency_symbol"`
	DefaultTaxRate    decimal.Decimal `gorm:"type:decimal(5,2)" json:"default_tax_rate"`
	ReceiptFooter     string          `gorm:"type:text" json:"receipt_footer"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	UpdatedBy         string          `json:"updated_by,omitempty"`
}

// DefaultSetting is returned until an admin saves the settings for the first time
func DefaultSetting() *Setting {
	return &Setting{
		Key:               SettingsKey,
		BusinessName:      "My Store",
		Currency:          "USD",
		CurrencySymbol:    "$",
		DefaultTaxRate:    decimal.Zero,
		ReceiptFooter:     "Thank you for shopping with us!",
		LowStockThreshold: 5,
	}
}

package model

// Supplier provides goods for purchases
type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person,omitempty"`
	Email         string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone         string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address       string `gorm:"type:text" json:"address,omitempty"`
	TaxNumber     string `gorm:"type:varchar(50)" json:"tax_number,omitempty"`
}

// Customer is optionally attached to a sale
type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Email   string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone   string `gorm:"type:varchar(30);index" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`
}

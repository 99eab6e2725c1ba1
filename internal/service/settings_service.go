package service

import (
	"strings"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

// SettingsService reads and writes the business settings record
type SettingsService interface {
	GetSettings() (*model.Setting, error)
	UpdateSettings(req *SettingsRequest, actor *auth.Identity) (*model.Setting, error)
}

type SettingsRequest struct {
	BusinessName      string          `json:"business_name" validate:"required,max=255"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone" validate:"max=30"`
	Email             string          `json:"email" validate:"omitempty,email"`
	Currency          string          `json:"currency" validate:"required,len=3"`
	CurrencySymbol    string          `json:"currency_symbol" validate:"max=5"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate" validate:"gte=0,lte=100"`
	ReceiptFooter     string          `json:"receipt_footer"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"gte=0"`
}

type settingsService struct {
	settingRepo repository.SettingRepository
}

func NewSettingsService(settingRepo repository.SettingRepository) SettingsService {
	return &settingsService{settingRepo: settingRepo}
}

func (s *settingsService) GetSettings() (*model.Setting, error) {
	setting, err := s.settingRepo.Get()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return setting, nil
}

func (s *settingsService) UpdateSettings(req *SettingsRequest, actor *auth.Identity) (*model.Setting, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	setting := &model.Setting{
		Key:               model.SettingsKey,
		BusinessName:      strings.TrimSpace(req.BusinessName),
		Address:           req.Address,
		Phone:             req.Phone,
		Email:             req.Email,
		Currency:          strings.ToUpper(req.Currency),
		CurrencySymbol:    req.CurrencySymbol,
		DefaultTaxRate:    req.DefaultTaxRate.Round(2),
		ReceiptFooter:     req.ReceiptFooter,
		LowStockThreshold: req.LowStockThreshold,
		UpdatedBy:         actorID(actor),
	}
	if err := s.settingRepo.Save(setting); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetSettings()
}

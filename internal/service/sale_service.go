package service

import (
	"fmt"
	"time"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/metrics"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/order"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(req *CreateSaleRequest, actor *auth.Identity) (*model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	GetAllSales(filter repository.SaleFilter) ([]model.Sale, int64, error)
	GetReceipt(id uuid.UUID) (*model.Receipt, error)
}

type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"` // defaults to the catalog price
}

type CreateSaleRequest struct {
	CustomerID    *uuid.UUID        `json:"customer_id"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax           *decimal.Decimal  `json:"tax" validate:"omitempty,gte=0"` // defaults to the business tax rate
	Discount      decimal.Decimal   `json:"discount" validate:"gte=0"`
	AmountPaid    decimal.Decimal   `json:"amount_paid" validate:"gte=0"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer ewallet"`
	Note          string            `json:"note" validate:"max=500"`
}

type saleService struct {
	db           *gorm.DB
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	movementRepo repository.MovementRepository
	settingRepo  repository.SettingRepository
	events       *events.Dispatcher
	cache        cache.Cache
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	movementRepo repository.MovementRepository,
	settingRepo repository.SettingRepository,
	dispatcher *events.Dispatcher,
	c cache.Cache,
) SaleService {
	return &saleService{
		db:           db,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		movementRepo: movementRepo,
		settingRepo:  settingRepo,
		events:       dispatcher,
		cache:        c,
	}
}

// CreateSale prices the items, checks payment and decrements stock in one transaction.
// If any line cannot be fulfilled nothing is written.
func (s *saleService) CreateSale(req *CreateSaleRequest, actor *auth.Identity) (*model.Sale, error) {
	if err := validate(req); err != nil {
		metrics.SalesRejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if req.CustomerID != nil && *req.CustomerID != uuid.Nil {
		if _, err := s.customerRepo.FindByID(*req.CustomerID); err != nil {
			return nil, apperr.FromDB(err, "customer")
		}
	}

	// 1. Resolve products and prices
	products := make([]*model.Product, len(req.Items))
	lines := make([]order.Line, len(req.Items))
	for i, item := range req.Items {
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			return nil, apperr.FromDB(err, "product")
		}
		if !product.IsActive {
			return nil, apperr.Validationf("product '%s' is not active", product.Name)
		}
		price := product.Price
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		products[i] = product
		lines[i] = order.Line{Quantity: item.Quantity, Price: price}
	}

	// 2. Totals
	tax, err := s.resolveTax(req.Tax, lines)
	if err != nil {
		return nil, err
	}
	totals, err := order.Compute(lines, order.Adjustments{Tax: tax, Discount: req.Discount})
	if err != nil {
		metrics.SalesRejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}
	paid, change, err := order.Change(totals.Total, req.AmountPaid)
	if err != nil {
		metrics.SalesRejectedTotal.WithLabelValues("underpaid").Inc()
		return nil, err
	}

	now := time.Now()
	sale := &model.Sale{
		InvoiceNumber: documentNumber("INV", now),
		UserID:        userIDOf(actor),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		AmountPaid:    paid,
		ChangeDue:     change,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Status:        model.SaleCompleted,
		Note:          req.Note,
		Items:         make([]model.SaleItem, len(req.Items)),
	}
	sale.ID = uuid.New()
	sale.CreatedBy = actorID(actor)
	sale.UpdatedBy = actorID(actor)
	if req.CustomerID != nil && *req.CustomerID != uuid.Nil {
		sale.CustomerID = req.CustomerID
	}
	for i, item := range req.Items {
		sale.Items[i] = model.SaleItem{
			ProductID:   item.ProductID,
			ProductName: products[i].Name,
			SKU:         products[i].SKU,
			Quantity:    item.Quantity,
			UnitPrice:   lines[i].Price.Round(2),
			Subtotal:    totals.Lines[i],
		}
		sale.Items[i].CreatedBy = actorID(actor)
	}

	// 3. Persist and move stock atomically
	stockAfter := make([]int, len(req.Items))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, item := range req.Items {
			after, ok, err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				var available int
				if err := tx.Model(&model.Product{}).Select("stock_quantity").Where("id = ?", item.ProductID).Scan(&available).Error; err != nil {
					return err
				}
				return apperr.InsufficientStock(products[i].Name, available, item.Quantity)
			}
			stockAfter[i] = after
		}

		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		for i, item := range req.Items {
			movement := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        model.MovementOut,
				Reason:      model.ReasonSale,
				Quantity:    item.Quantity,
				StockAfter:  stockAfter[i],
				ReferenceID: &sale.ID,
				Note:        sale.InvoiceNumber,
				UserID:      sale.UserID,
			}
			movement.CreatedBy = actorID(actor)
			if err := s.movementRepo.Record(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInsufficientStock {
			metrics.SalesRejectedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, err
		}
		return nil, apperr.FromDB(err, "sale")
	}

	// 4. After commit: metrics, cache and events
	revenue, _ := sale.Total.Float64()
	metrics.SalesCreatedTotal.WithLabelValues(string(sale.PaymentMethod)).Inc()
	metrics.SalesRevenueTotal.Add(revenue)
	for _, item := range sale.Items {
		metrics.StockUnitsMovedTotal.WithLabelValues(string(model.MovementOut), string(model.ReasonSale)).Add(float64(item.Quantity))
	}
	invalidate(s.cache, cache.PrefixDashboard, cache.PrefixForecast)

	s.events.Emit(events.Event{
		Type:    events.SaleCreated,
		Key:     sale.ID.String(),
		Message: fmt.Sprintf("%s recorded sale %s (%s)", actorName(actor), sale.InvoiceNumber, sale.Total.StringFixed(2)),
		Actor:   actorOf(actor),
		Data: map[string]interface{}{
			"id":             sale.ID,
			"invoice_number": sale.InvoiceNumber,
			"total":          sale.Total,
			"items":          len(sale.Items),
		},
	})
	for i, product := range products {
		if stockAfter[i] <= product.AlertThreshold {
			s.events.Emit(events.Event{
				Type:    events.StockLow,
				Key:     product.ID.String(),
				Message: fmt.Sprintf("'%s' is low on stock (%d left)", product.Name, stockAfter[i]),
				Data: map[string]interface{}{
					"id":              product.ID,
					"sku":             product.SKU,
					"name":            product.Name,
					"stock":           stockAfter[i],
					"alert_threshold": product.AlertThreshold,
				},
			})
		}
	}

	return s.GetSale(sale.ID)
}

// resolveTax applies the business tax rate when the request carries no explicit tax
func (s *saleService) resolveTax(explicit *decimal.Decimal, lines []order.Line) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}
	settings, err := s.settingRepo.Get()
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	if !settings.DefaultTaxRate.IsPositive() {
		return decimal.Zero, nil
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(order.LineSubtotal(l))
	}
	return subtotal.Mul(settings.DefaultTaxRate).Div(decimal.NewFromInt(100)).Round(2), nil
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "sale")
	}
	return sale, nil
}

func (s *saleService) GetAllSales(filter repository.SaleFilter) ([]model.Sale, int64, error) {
	sales, total, err := s.saleRepo.FindAll(filter)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return sales, total, nil
}

func (s *saleService) GetReceipt(id uuid.UUID) (*model.Receipt, error) {
	sale, err := s.GetSale(id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingRepo.Get()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	receipt := sale.ToReceipt(settings)
	return &receipt, nil
}

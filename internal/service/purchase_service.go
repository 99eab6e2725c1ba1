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

type PurchaseService interface {
	CreatePurchase(req *CreatePurchaseRequest, actor *auth.Identity) (*model.Purchase, error)
	GetPurchase(id uuid.UUID) (*model.Purchase, error)
	GetAllPurchases(filter repository.PurchaseFilter) ([]model.Purchase, error)
	UpdatePurchaseStatus(id uuid.UUID, req *UpdatePurchaseStatusRequest, actor *auth.Identity) (*model.Purchase, error)
}

type PurchaseItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0"`
}

type CreatePurchaseRequest struct {
	SupplierID   uuid.UUID             `json:"supplier_id" validate:"uuid_required"`
	OrderDate    *time.Time            `json:"order_date"`
	DueDate      *time.Time            `json:"due_date"`
	Notes        string                `json:"notes" validate:"max=1000"`
	Items        []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax          decimal.Decimal       `json:"tax" validate:"gte=0"`
	Discount     decimal.Decimal       `json:"discount" validate:"gte=0"`
	ShippingCost decimal.Decimal       `json:"shipping_cost" validate:"gte=0"`
}

type UpdatePurchaseStatusRequest struct {
	Status       string     `json:"status" validate:"required,oneof=pending received cancelled"`
	ReceivedDate *time.Time `json:"received_date"`
}

type purchaseService struct {
	db           *gorm.DB
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.MovementRepository
	events       *events.Dispatcher
	cache        cache.Cache
}

func NewPurchaseService(
	db *gorm.DB,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
	dispatcher *events.Dispatcher,
	c cache.Cache,
) PurchaseService {
	return &purchaseService{
		db:           db,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		events:       dispatcher,
		cache:        c,
	}
}

// CreatePurchase records a pending order with a supplier. Stock does not move until it is received.
func (s *purchaseService) CreatePurchase(req *CreatePurchaseRequest, actor *auth.Identity) (*model.Purchase, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.supplierRepo.FindByID(req.SupplierID); err != nil {
		return nil, apperr.FromDB(err, "supplier")
	}

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
		products[i] = product
		lines[i] = order.Line{Quantity: item.Quantity, Price: item.UnitCost}
	}

	totals, err := order.Compute(lines, order.Adjustments{
		Tax:      req.Tax,
		Discount: req.Discount,
		Shipping: req.ShippingCost,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	orderDate := now
	if req.OrderDate != nil && !req.OrderDate.IsZero() {
		orderDate = *req.OrderDate
	}
	if req.DueDate != nil && req.DueDate.Before(orderDate) {
		return nil, apperr.Validation("due_date cannot be before order_date")
	}

	purchase := &model.Purchase{
		ReferenceNumber: documentNumber("PO", now),
		SupplierID:      req.SupplierID,
		UserID:          userIDOf(actor),
		OrderDate:       orderDate,
		DueDate:         req.DueDate,
		Status:          model.PurchasePending,
		Notes:           req.Notes,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Discount:        totals.Discount,
		ShippingCost:    totals.Shipping,
		Total:           totals.Total,
		Items:           make([]model.PurchaseItem, len(req.Items)),
	}
	purchase.CreatedBy = actorID(actor)
	purchase.UpdatedBy = actorID(actor)
	for i, item := range req.Items {
		purchase.Items[i] = model.PurchaseItem{
			ProductID:   item.ProductID,
			ProductName: products[i].Name,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost.Round(2),
			Subtotal:    totals.Lines[i],
		}
		purchase.Items[i].CreatedBy = actorID(actor)
	}

	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, apperr.FromDB(err, "purchase")
	}

	invalidate(s.cache, cache.PrefixDashboard)
	s.events.Emit(events.Event{
		Type:    events.PurchaseCreated,
		Key:     purchase.ID.String(),
		Message: fmt.Sprintf("%s created purchase %s", actorName(actor), purchase.ReferenceNumber),
		Actor:   actorOf(actor),
		Data: map[string]interface{}{
			"id":               purchase.ID,
			"reference_number": purchase.ReferenceNumber,
			"total":            purchase.Total,
			"status":           purchase.Status,
		},
	})

	return s.GetPurchase(purchase.ID)
}

func (s *purchaseService) GetPurchase(id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "purchase")
	}
	return purchase, nil
}

func (s *purchaseService) GetAllPurchases(filter repository.PurchaseFilter) ([]model.Purchase, error) {
	purchases, err := s.purchaseRepo.FindAll(filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return purchases, nil
}

// UpdatePurchaseStatus moves a pending purchase to received or cancelled.
// Receiving adds every item to stock; the conditional status update makes it happen once.
func (s *purchaseService) UpdatePurchaseStatus(id uuid.UUID, req *UpdatePurchaseStatusRequest, actor *auth.Identity) (*model.Purchase, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	next := model.PurchaseStatus(req.Status)

	purchase, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "purchase")
	}
	if !purchase.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidTransition(string(purchase.Status), string(next))
	}

	var receivedDate *time.Time
	if next == model.PurchaseReceived {
		at := time.Now()
		if req.ReceivedDate != nil && !req.ReceivedDate.IsZero() {
			at = *req.ReceivedDate
		}
		receivedDate = &at
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		moved, err := s.purchaseRepo.TransitionStatus(tx, id, purchase.Status, next, receivedDate, actorID(actor))
		if err != nil {
			return err
		}
		if !moved {
			// Someone else changed the status between our read and this update
			var current model.Purchase
			if err := tx.Select("status").First(&current, "id = ?", id).Error; err != nil {
				return err
			}
			return apperr.InvalidTransition(string(current.Status), string(next))
		}

		if next != model.PurchaseReceived {
			return nil
		}
		for _, item := range purchase.Items {
			after, err := s.productRepo.IncrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return apperr.FromDB(err, "product")
			}
			movement := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        model.MovementIn,
				Reason:      model.ReasonPurchase,
				Quantity:    item.Quantity,
				StockAfter:  after,
				ReferenceID: &purchase.ID,
				Note:        purchase.ReferenceNumber,
				UserID:      userIDOf(actor),
			}
			movement.CreatedBy = actorID(actor)
			if err := s.movementRepo.Record(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "purchase")
	}

	eventType := events.PurchaseCancelled
	verb := "cancelled"
	if next == model.PurchaseReceived {
		eventType = events.PurchaseReceived
		verb = "received"
		metrics.PurchasesReceivedTotal.Inc()
		for _, item := range purchase.Items {
			metrics.StockUnitsMovedTotal.WithLabelValues(string(model.MovementIn), string(model.ReasonPurchase)).Add(float64(item.Quantity))
		}
		invalidate(s.cache, cache.PrefixDashboard, cache.PrefixForecast)
	} else {
		invalidate(s.cache, cache.PrefixDashboard)
	}

	s.events.Emit(events.Event{
		Type:    eventType,
		Key:     purchase.ID.String(),
		Message: fmt.Sprintf("%s %s purchase %s", actorName(actor), verb, purchase.ReferenceNumber),
		Actor:   actorOf(actor),
		Data: map[string]interface{}{
			"id":               purchase.ID,
			"reference_number": purchase.ReferenceNumber,
			"status":           next,
		},
	})

	return s.GetPurchase(id)
}

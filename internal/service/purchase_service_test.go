package service

import (
	"testing"
	"time"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchase(t *testing.T, env *testEnv, items ...PurchaseItemRequest) *model.Purchase {
	t.Helper()
	supplier, err := env.partners.CreateSupplier(&SupplierRequest{Name: "Acme Wholesale"}, env.admin)
	require.NoError(t, err)

	purchase, err := env.purchases.CreatePurchase(&CreatePurchaseRequest{
		SupplierID:   supplier.ID,
		Items:        items,
		Tax:          dec("2.00"),
		Discount:     dec("1.00"),
		ShippingCost: dec("5.00"),
	}, env.admin)
	require.NoError(t, err)
	return purchase
}

func TestCreatePurchaseDoesNotMoveStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, env.category(t, "Coffee"), "BEANS", "12.00", 4)

	purchase := newPurchase(t, env, PurchaseItemRequest{ProductID: p.ID, Quantity: 10, UnitCost: dec("6.50")})

	assert.Equal(t, model.PurchasePending, purchase.Status)
	assert.Equal(t, "65.00", purchase.Subtotal.StringFixed(2))
	// itemized total: subtotal + tax + shipping - discount
	assert.Equal(t, "71.00", purchase.Total.StringFixed(2))
	assert.Contains(t, purchase.ReferenceNumber, "PO-")
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, 4, env.stock(t, p))
}

func TestCreatePurchaseValidatesItems(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Coffee")
	beans := env.product(t, cat, "BEANS", "12.00", 4)
	inactive := false
	retired, err := env.catalog.CreateProduct(&ProductRequest{
		SKU: "RETIRED", Name: "Retired Blend", Price: dec("9.00"), CategoryID: cat.ID, IsActive: &inactive,
	}, env.admin)
	require.NoError(t, err)
	supplier, err := env.partners.CreateSupplier(&SupplierRequest{Name: "Roasters Ltd"}, env.admin)
	require.NoError(t, err)

	tests := []struct {
		name  string
		items []PurchaseItemRequest
	}{
		{"inactive product", []PurchaseItemRequest{{ProductID: retired.ID, Quantity: 5, UnitCost: dec("4.00")}}},
		{"sub-cent unit cost", []PurchaseItemRequest{{ProductID: beans.ID, Quantity: 3, UnitCost: dec("0.333")}}},
		{"zero quantity", []PurchaseItemRequest{{ProductID: beans.ID, Quantity: 0, UnitCost: dec("1.00")}}},
		{"no items", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.purchases.CreatePurchase(&CreatePurchaseRequest{SupplierID: supplier.ID, Items: tt.items}, env.admin)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	purchases, err := env.purchases.GetAllPurchases(repository.PurchaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestReceivePurchaseIncrementsStockOnce(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Coffee")
	beans := env.product(t, cat, "BEANS", "12.00", 4)
	filters := env.product(t, cat, "FILTERS", "3.00", 0)

	purchase := newPurchase(t, env,
		PurchaseItemRequest{ProductID: beans.ID, Quantity: 10, UnitCost: dec("6.50")},
		PurchaseItemRequest{ProductID: filters.ID, Quantity: 25, UnitCost: dec("0.80")},
	)

	received, err := env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "received"}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseReceived, received.Status)
	assert.NotNil(t, received.ReceivedDate)
	assert.Equal(t, 14, env.stock(t, beans))
	assert.Equal(t, 25, env.stock(t, filters))

	_, err = env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "received"}, env.admin)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidStateTransition, apperr.KindOf(err))
	assert.Equal(t, 400, apperr.As(err).HTTPStatus())
	assert.Equal(t, 14, env.stock(t, beans))
	assert.Equal(t, 25, env.stock(t, filters))

	_, err = env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "cancelled"}, env.admin)
	assert.Equal(t, apperr.KindInvalidStateTransition, apperr.KindOf(err))

	env.ledgerMatches(t, beans)
	env.ledgerMatches(t, filters)
}

func TestCancelPurchase(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, env.category(t, "Coffee"), "BEANS", "12.00", 4)
	purchase := newPurchase(t, env, PurchaseItemRequest{ProductID: p.ID, Quantity: 10, UnitCost: dec("6.50")})

	receivedAt := time.Now().Add(-time.Hour)
	cancelled, err := env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "cancelled", ReceivedDate: &receivedAt}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCancelled, cancelled.Status)
	assert.Nil(t, cancelled.ReceivedDate)
	assert.Equal(t, 4, env.stock(t, p))

	_, err = env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "received"}, env.admin)
	assert.Equal(t, apperr.KindInvalidStateTransition, apperr.KindOf(err))
	assert.Equal(t, 4, env.stock(t, p))

	pending, err := env.purchases.GetAllPurchases(repository.PurchaseFilter{Status: model.PurchasePending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPurchaseStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, env.category(t, "Coffee"), "BEANS", "12.00", 4)
	purchase := newPurchase(t, env, PurchaseItemRequest{ProductID: p.ID, Quantity: 1, UnitCost: dec("6.50")})

	_, err := env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "shipped"}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.purchases.UpdatePurchaseStatus(purchase.ID, &UpdatePurchaseStatusRequest{Status: "pending"}, env.admin)
	assert.Equal(t, apperr.KindInvalidStateTransition, apperr.KindOf(err))
}

func TestSupplierWithPurchasesCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, env.category(t, "Coffee"), "BEANS", "12.00", 4)
	purchase := newPurchase(t, env, PurchaseItemRequest{ProductID: p.ID, Quantity: 1, UnitCost: dec("6.50")})

	err := env.partners.DeleteSupplier(purchase.SupplierID)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	other, err := env.partners.CreateSupplier(&SupplierRequest{Name: "Unused"}, env.admin)
	require.NoError(t, err)
	require.NoError(t, env.partners.DeleteSupplier(other.ID))
	_, err = env.partners.GetSupplier(other.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

package service

import (
	"testing"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Drinks")

	p := env.product(t, cat, "WATER", "0.99", 24)
	assert.Equal(t, 24, p.StockQuantity)
	assert.Equal(t, 5, p.AlertThreshold)
	assert.True(t, p.IsActive)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Drinks", p.Category.Name)
	env.ledgerMatches(t, p)

	_, err := env.catalog.CreateProduct(&ProductRequest{SKU: "WATER", Name: "Again", CategoryID: cat.ID}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.catalog.CreateProduct(&ProductRequest{SKU: "X1", Name: "Orphan", CategoryID: uuid.New()}, env.admin)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = env.catalog.CreateProduct(&ProductRequest{SKU: "X2", Name: "Negative", Price: dec("-1"), CategoryID: cat.ID}, env.admin)
	require.Error(t, err)
	appErr := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	require.NotEmpty(t, appErr.Fields)
	assert.Equal(t, "price", appErr.Fields[0].FailedField)

	_, err = env.catalog.CreateProduct(&ProductRequest{SKU: "X3", Name: "Fraction", Price: dec("0.333"), CategoryID: cat.ID}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.catalog.UpdateProduct(p.ID, &ProductRequest{SKU: "WATER", Name: "Water", Price: dec("0.99"), Cost: dec("0.495"), CategoryID: cat.ID}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateProductKeepsStock(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Drinks")
	p := env.product(t, cat, "WATER", "0.99", 24)

	threshold := 0
	updated, err := env.catalog.UpdateProduct(p.ID, &ProductRequest{
		SKU:            "WATER-500",
		Name:           "Water 500ml",
		Price:          dec("1.10"),
		StockQuantity:  999,
		AlertThreshold: &threshold,
		CategoryID:     cat.ID,
	}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, "WATER-500", updated.SKU)
	assert.Equal(t, "1.10", updated.Price.StringFixed(2))
	assert.Equal(t, 0, updated.AlertThreshold)
	assert.Equal(t, 24, updated.StockQuantity)

	_, err = env.catalog.UpdateProduct(uuid.New(), &ProductRequest{SKU: "A", Name: "B", CategoryID: cat.ID}, env.admin)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteProductAndCategory(t *testing.T) {
	env := newTestEnv(t)
	cat := env.category(t, "Drinks")
	fresh := env.product(t, cat, "NEW", "1.00", 0)
	stocked := env.product(t, cat, "OLD", "1.00", 5)

	err := env.catalog.DeleteCategory(cat.ID, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// opening stock is ledger history
	err = env.catalog.DeleteProduct(stocked.ID, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, env.catalog.DeleteProduct(fresh.ID, env.admin))
	_, err = env.catalog.GetProduct(fresh.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	products, err := env.catalog.GetAllProducts(repository.ProductFilter{Search: "old"})
	require.NoError(t, err)
	require.Len(t, products, 1)

	empty := env.category(t, "Empty")
	require.NoError(t, env.catalog.DeleteCategory(empty.ID, env.admin))

	_, err = env.catalog.CreateCategory(&CategoryRequest{Name: "drinks"}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProductLabel(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, env.category(t, "Drinks"), "WATER", "0.99", 1)

	label, err := env.catalog.GetProductLabel(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "WATER", label.Barcode)
	assert.Equal(t, "USD", label.Currency)
	assert.Equal(t, "0.99", label.Price.StringFixed(2))
}

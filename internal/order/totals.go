// Package order holds the money arithmetic shared by sales and purchases.
// All amounts are fixed-point decimals in cents. Unit prices must already be whole
// cents, so line subtotals are exact and only adjustments and the total are rounded.
package order

import (
	"github.com/shopspring/decimal"

	"go-pos-inventory/internal/apperr"
)

// Line is one priced line item. Price is the unit price for sales and the unit cost for purchases.
type Line struct {
	Quantity int
	Price    decimal.Decimal
}

// Adjustments are absolute amounts applied on top of the line subtotal.
type Adjustments struct {
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
}

type Totals struct {
	Lines    []decimal.Decimal
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// LineSubtotal returns quantity * price.
func LineSubtotal(l Line) decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// IsCents reports whether d has no more than two decimal places.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// Compute validates the lines and returns subtotal and total.
// total = sum(line subtotals) + tax + shipping - discount
func Compute(lines []Line, adj Adjustments) (*Totals, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("at least one item is required")
	}
	if adj.Tax.IsNegative() || adj.Discount.IsNegative() || adj.Shipping.IsNegative() {
		return nil, apperr.Validation("tax, discount and shipping cannot be negative")
	}

	t := &Totals{
		Lines:    make([]decimal.Decimal, len(lines)),
		Subtotal: decimal.Zero,
		Tax:      adj.Tax.Round(2),
		Discount: adj.Discount.Round(2),
		Shipping: adj.Shipping.Round(2),
	}
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperr.Validationf("item %d: quantity must be a positive integer", i+1)
		}
		if l.Price.IsNegative() {
			return nil, apperr.Validationf("item %d: price cannot be negative", i+1)
		}
		if !IsCents(l.Price) {
			return nil, apperr.Validationf("item %d: price cannot have more than two decimal places", i+1)
		}
		t.Lines[i] = LineSubtotal(l)
		t.Subtotal = t.Subtotal.Add(t.Lines[i])
	}

	gross := t.Subtotal.Add(t.Tax).Add(t.Shipping)
	if t.Discount.GreaterThan(gross) {
		return nil, apperr.Validation("discount cannot exceed the order amount")
	}
	t.Total = gross.Sub(t.Discount).Round(2)
	return t, nil
}

// Change returns amountPaid - total, or an error when the payment does not cover the total.
// A zero amountPaid means exact payment.
func Change(total, amountPaid decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amountPaid.IsZero() {
		return total, decimal.Zero, nil
	}
	if amountPaid.LessThan(total) {
		return decimal.Zero, decimal.Zero, apperr.Validation("amount paid is less than the sale total")
	}
	return amountPaid, amountPaid.Sub(total).Round(2), nil
}

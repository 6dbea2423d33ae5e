package cart

import (
	"github.com/shopspring/decimal"
	"github.com/vvakame/foodexpress/internal/model"
)

var (
	// FreeDeliveryThreshold is exclusive: a subtotal of exactly 25.00 still pays the fee.
	FreeDeliveryThreshold = decimal.RequireFromString("25.00")
	DeliveryFee           = decimal.RequireFromString("2.50")
	TaxRate               = decimal.RequireFromString("0.10")
)

const moneyPlaces = 2

type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// Price computes the totals of lines. Tax is kept unrounded at exactly TaxRate of the subtotal.
//
// An empty line set prices to zero, delivery fee included, even though a
// subtotal of 0 would otherwise fall under FreeDeliveryThreshold and pay DeliveryFee.
func Price(lines []model.CartLine) Totals {
	if len(lines) == 0 {
		return Totals{
			Subtotal:    decimal.Zero,
			DeliveryFee: decimal.Zero,
			Tax:         decimal.Zero,
			Total:       decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount())
	}
	subtotal = subtotal.Round(moneyPlaces)

	fee := DeliveryFee
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}

// Recompute refreshes the totals of c from its lines and clears the restaurant binding of an empty cart.
func Recompute(c *model.Cart) {
	totals := Price(c.Items)
	c.Subtotal = totals.Subtotal
	c.DeliveryFee = totals.DeliveryFee
	c.Tax = totals.Tax
	c.Total = totals.Total
	if c.IsEmpty() {
		c.RestaurantID = nil
	}
}

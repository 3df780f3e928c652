package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricing holds the externally configured money rules.
type Pricing struct {
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	MaxCODAmount          decimal.Decimal
}

type Quote struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// UnitPrice is the base product price plus the variant modifier.
func UnitPrice(price, modifier decimal.Decimal) decimal.Decimal {
	return price.Add(modifier)
}

func LineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// Quote waives the delivery fee once subtotal reaches the threshold.
func (p Pricing) Quote(subtotal decimal.Decimal) Quote {
	fee := p.DeliveryFee
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	return Quote{Subtotal: subtotal, DeliveryFee: fee, Total: subtotal.Add(fee)}
}

// CODAllowed is inclusive: a total equal to the limit is accepted.
func (p Pricing) CODAllowed(total decimal.Decimal) bool {
	return total.LessThanOrEqual(p.MaxCODAmount)
}

// FormatOrderNumber renders the human order number, e.g. 2026-000042.
func FormatOrderNumber(year int, seq int64) string {
	return fmt.Sprintf("%d-%06d", year, seq)
}

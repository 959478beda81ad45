// Package pricing derives the cart total. It is a pure computation over a
// cart snapshot: no caching, no I/O — callers recompute on every cart change
// so the displayed and charged totals can never drift from the item list.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/elit-storefront/internal/domain/cart"
)

// Total returns the sum of price*quantity over items, rounded to two decimal
// places for display and for submission to the payment flow.
func Total(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		total = total.Add(item.Price.Mul(qty))
	}
	return total.Round(2)
}

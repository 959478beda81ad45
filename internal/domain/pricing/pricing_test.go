package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/elit-storefront/internal/domain/cart"
)

func item(id, price string, qty int) cart.Item {
	return cart.Item{
		ID:       id,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}

func TestTotal_EmptyCart(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Total(nil)))
}

func TestTotal_SingleItem(t *testing.T) {
	total := Total([]cart.Item{item("p1", "19.99", 3)})
	assert.True(t, decimal.RequireFromString("59.97").Equal(total))
}

func TestTotal_MixedCart(t *testing.T) {
	total := Total([]cart.Item{
		item("p1", "10.00", 2),
		item("p2", "5.50", 1),
	})
	assert.True(t, decimal.RequireFromString("25.50").Equal(total))
}

func TestTotal_RoundsToTwoDecimals(t *testing.T) {
	total := Total([]cart.Item{item("p1", "0.333", 3)})
	assert.Equal(t, "1.00", total.StringFixed(2))
}

func TestTotal_PureFunctionOfSnapshot(t *testing.T) {
	items := []cart.Item{
		item("p1", "7.25", 4),
		item("p2", "0.99", 10),
		item("p3", "120.50", 1),
	}

	// Recomputation over any permutation of mutations matches the direct sum.
	expected := decimal.Zero
	for _, it := range items {
		expected = expected.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, expected.Round(2).Equal(Total(items)))

	// And calling twice never drifts.
	assert.True(t, Total(items).Equal(Total(items)))
}

package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// StorageKey is the fixed durable-storage key the cart is persisted under.
const StorageKey = "cartItems"

// Item represents a single cart line: a catalog product chosen by the buyer
// together with the desired quantity. Title and ImageRef are display-only
// and opaque to cart logic.
type Item struct {
	ID       string
	Title    string
	ImageRef string
	Price    decimal.Decimal
	Quantity int
}

// Repository defines persistence operations for the cart. The whole cart is
// written on every mutation so a later process start can rehydrate the same
// state.
type Repository interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// cloneItems returns a deep, independent copy of items. decimal.Decimal is
// immutable, so a field-wise copy is sufficient.
func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Command cart-inspect dumps the state persisted in a local storefront
// storage file: the cart contents and the display name. Useful when
// debugging rehydration issues.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/xenking/elit-storefront/internal/domain/cart"
	"github.com/xenking/elit-storefront/internal/domain/pricing"
	"github.com/xenking/elit-storefront/internal/storage"
	"github.com/xenking/elit-storefront/internal/storage/sqlite"
)

func main() {
	var storagePath string
	flag.StringVar(&storagePath, "storage-path", "storefront.db", "path to the SQLite storage file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, storagePath); err != nil {
		slog.Error("inspect failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, storagePath string) error {
	kv, err := sqlite.Open(storagePath)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer func() { _ = kv.Close() }()

	name, err := kv.Get(ctx, "userName")
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Println("display name: (not set)")
	case err != nil:
		return errors.Wrap(err, "read display name")
	default:
		fmt.Printf("display name: %s\n", name)
	}

	items, err := cart.NewKVRepository(kv).Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	if len(items) == 0 {
		fmt.Println("cart: empty")
		return nil
	}

	fmt.Printf("cart: %d items\n", len(items))
	for _, item := range items {
		fmt.Printf("  %-10s %-30s $%-8s x%d\n",
			item.ID, item.Title, item.Price.StringFixed(2), item.Quantity)
	}
	fmt.Printf("total: $%s\n", pricing.Total(items).StringFixed(2))
	return nil
}

package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/elit-storefront/internal/storage"
)

var _ Repository = (*KVRepository)(nil)

// KVRepository implements Repository on top of durable key-value storage.
// The full cart is serialized to a JSON array under StorageKey, overwriting
// the previous value on every save.
type KVRepository struct {
	kv storage.KV
}

// NewKVRepository returns a KVRepository backed by the given storage.
func NewKVRepository(kv storage.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

// Load reads and decodes the persisted cart. An absent key yields an empty
// cart without error.
func (r *KVRepository) Load(ctx context.Context) ([]Item, error) {
	raw, err := r.kv.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load cart")
	}

	items, err := decodeItems([]byte(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}

// Save overwrites the persisted cart with the given items.
func (r *KVRepository) Save(ctx context.Context, items []Item) error {
	if err := r.kv.Set(ctx, StorageKey, string(encodeItems(items))); err != nil {
		return errors.Wrap(err, "save cart")
	}
	return nil
}

// encodeItems serializes items to a JSON array. Field names follow the
// storefront wire format, which is also what the order backend expects in
// checkout submissions.
func encodeItems(items []Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, item := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(item.ID)
		e.FieldStart("title")
		e.Str(item.Title)
		e.FieldStart("img")
		e.Str(item.ImageRef)
		e.FieldStart("price")
		e.Raw([]byte(item.Price.String()))
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// decodeItems parses a JSON array produced by encodeItems.
func decodeItems(raw []byte) ([]Item, error) {
	d := jx.DecodeBytes(raw)

	var items []Item
	if err := d.Arr(func(d *jx.Decoder) error {
		var item Item
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				v, err := d.Str()
				if err != nil {
					return err
				}
				item.ID = v
			case "title":
				v, err := d.Str()
				if err != nil {
					return err
				}
				item.Title = v
			case "img":
				v, err := d.Str()
				if err != nil {
					return err
				}
				item.ImageRef = v
			case "price":
				num, err := d.Num()
				if err != nil {
					return err
				}
				price, err := parseDecimal(num)
				if err != nil {
					return err
				}
				item.Price = price
			case "quantity":
				v, err := d.Int()
				if err != nil {
					return err
				}
				item.Quantity = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}); err != nil {
		return nil, err
	}
	return items, nil
}

func parseDecimal(num jx.Num) (d decimal.Decimal, _ error) {
	d, err := decimal.NewFromString(num.String())
	if err != nil {
		return d, errors.Wrap(err, "parse price")
	}
	return d, nil
}

// Package storage defines the durable local key-value storage the storefront
// persists client state into: the cart under its fixed key and the buyer's
// display name under a separate key.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// KV is a durable string key-value store. Set overwrites unconditionally.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

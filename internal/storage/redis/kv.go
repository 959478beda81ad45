// Package redis provides a Redis-backed implementation of storage.KV, used
// when several storefront surfaces (a second tab, another device on the same
// session) need to share one cart. Values are stored without TTL: this is
// durable state, not a cache.
package redis

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/elit-storefront/internal/storage"
)

// keyPrefix namespaces storefront keys in a shared Redis instance.
const keyPrefix = "storefront:"

var _ storage.KV = (*KV)(nil)

// KV is the Redis implementation of storage.KV.
type KV struct {
	client *redis.Client
}

// New returns a KV backed by the given client.
func New(client *redis.Client) *KV {
	return &KV{client: client}
}

// Open connects to the Redis instance at addr and verifies connectivity.
func Open(ctx context.Context, addr string) (*KV, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", addr)
	}
	return New(client), nil
}

// Close releases the underlying client.
func (s *KV) Close() error {
	return s.client.Close()
}

// Get returns the value stored under key, or storage.ErrNotFound.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "get %q", key)
	}
	return value, nil
}

// Set stores value under key without expiration.
func (s *KV) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *KV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}

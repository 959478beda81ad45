package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/elit-storefront/internal/storage"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKV_SetGet(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cartItems", `[{"id":"p1"}]`))

	value, err := kv.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p1"}]`, value)
}

func TestKV_SetOverwrites(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "userName", "Ada"))
	require.NoError(t, kv.Set(ctx, "userName", "Grace"))

	value, err := kv.Get(ctx, "userName")
	require.NoError(t, err)
	assert.Equal(t, "Grace", value)
}

func TestKV_GetAbsent(t *testing.T) {
	kv := newTestKV(t)

	_, err := kv.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKV_Delete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "userName", "Ada"))
	require.NoError(t, kv.Delete(ctx, "userName"))

	_, err := kv.Get(ctx, "userName")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting an absent key is a no-op.
	assert.NoError(t, kv.Delete(ctx, "userName"))
}

func TestKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "cartItems", "[]"))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	value, err := second.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/elit-storefront/internal/storage"
)

// fakeKV is an in-memory storage.KV.
type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestKVRepository_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	repo := NewKVRepository(kv)

	items := []Item{
		{ID: "p1", Title: "Scarf", ImageRef: "images/p1.jpg", Price: decimal.RequireFromString("19.99"), Quantity: 2},
		{ID: "p2", Title: "Leather Bag", ImageRef: "images/p2.jpg", Price: decimal.RequireFromString("120.50"), Quantity: 1},
	}
	require.NoError(t, repo.Save(context.Background(), items))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "p1", loaded[0].ID)
	assert.Equal(t, "Scarf", loaded[0].Title)
	assert.Equal(t, "images/p1.jpg", loaded[0].ImageRef)
	assert.True(t, decimal.RequireFromString("19.99").Equal(loaded[0].Price))
	assert.Equal(t, 2, loaded[0].Quantity)
	assert.Equal(t, "p2", loaded[1].ID)
}

func TestKVRepository_LoadAbsentKey(t *testing.T) {
	repo := NewKVRepository(newFakeKV())

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestKVRepository_LoadCorruptPayload(t *testing.T) {
	kv := newFakeKV()
	kv.data[StorageKey] = `[{"id": "p1", "price":`

	_, err := NewKVRepository(kv).Load(context.Background())
	require.Error(t, err)
}

func TestKVRepository_SurvivesRestart(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()

	// First session: mutate and let the store persist.
	first := NewStore(ctx, NewKVRepository(kv), zaptest.NewLogger(t))
	first.AddOrIncrement(ctx, Item{ID: "p1", Title: "Scarf", Price: decimal.RequireFromString("19.99")})
	first.AddOrIncrement(ctx, Item{ID: "p1"})
	first.AddOrIncrement(ctx, Item{ID: "p2", Title: "Bag", Price: decimal.RequireFromString("49.00")})

	// Second session rehydrates from the same storage.
	second := NewStore(ctx, NewKVRepository(kv), zaptest.NewLogger(t))

	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

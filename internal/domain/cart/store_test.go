package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// --- Mock implementations ---

type mockRepo struct {
	saved     [][]Item
	loadItems []Item
	loadErr   error
	saveErr   error
}

func (m *mockRepo) Load(_ context.Context) ([]Item, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loadItems, nil
}

func (m *mockRepo) Save(_ context.Context, items []Item) error {
	m.saved = append(m.saved, items)
	return m.saveErr
}

// --- Helpers ---

func newTestItem(id, title string, price string) Item {
	return Item{
		ID:       id,
		Title:    title,
		ImageRef: "images/" + id + ".jpg",
		Price:    decimal.RequireFromString(price),
	}
}

func newTestStore(t *testing.T, repo Repository) *Store {
	t.Helper()
	return NewStore(context.Background(), repo, zaptest.NewLogger(t))
}

// --- Tests ---

func TestStore_AddOrIncrement_NewItem(t *testing.T) {
	s := newTestStore(t, &mockRepo{})

	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "p1", snapshot[0].ID)
	assert.Equal(t, 1, snapshot[0].Quantity)
}

func TestStore_AddOrIncrement_ExistingItem(t *testing.T) {
	s := newTestStore(t, &mockRepo{})

	item := newTestItem("p1", "Scarf", "19.99")
	s.AddOrIncrement(context.Background(), item)
	s.AddOrIncrement(context.Background(), item)
	s.AddOrIncrement(context.Background(), item)

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1, "repeated add must not create duplicates")
	assert.Equal(t, 3, snapshot[0].Quantity)
}

func TestStore_SetQuantity(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	s.SetQuantity(context.Background(), "p1", 5)

	assert.Equal(t, 5, s.Snapshot()[0].Quantity)
}

func TestStore_SetQuantity_NeverBelowOne(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	s.SetQuantity(context.Background(), "p1", 0)
	s.SetQuantity(context.Background(), "p1", -1)

	assert.Equal(t, 1, s.Snapshot()[0].Quantity)
}

func TestStore_SetQuantity_UnknownID(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	s.SetQuantity(context.Background(), "missing", 3)

	assert.Equal(t, 1, s.Snapshot()[0].Quantity)
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))
	s.AddOrIncrement(context.Background(), newTestItem("p2", "Bag", "49.00"))

	s.Remove(context.Background(), "p1")

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "p2", snapshot[0].ID)
}

func TestStore_Remove_AbsentID(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	require.NotPanics(t, func() {
		s.Remove(context.Background(), "missing")
	})
	assert.Equal(t, 1, s.Len())
}

func TestStore_InsertionOrderPreserved(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	for _, id := range []string{"c", "a", "b"} {
		s.AddOrIncrement(context.Background(), newTestItem(id, id, "1.00"))
	}
	s.AddOrIncrement(context.Background(), newTestItem("a", "a", "1.00"))

	var ids []string
	for _, item := range s.Snapshot() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestStore_SnapshotIsIndependentCopy(t *testing.T) {
	s := newTestStore(t, &mockRepo{})
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	snapshot := s.Snapshot()
	s.SetQuantity(context.Background(), "p1", 7)
	snapshot[0].Quantity = 99

	assert.Equal(t, 7, s.Snapshot()[0].Quantity)
}

func TestStore_EveryMutationPersists(t *testing.T) {
	repo := &mockRepo{}
	s := newTestStore(t, repo)

	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))
	s.SetQuantity(context.Background(), "p1", 2)
	s.Remove(context.Background(), "p1")

	require.Len(t, repo.saved, 3)
	assert.Empty(t, repo.saved[2], "final save reflects the empty cart")
}

func TestStore_PersistenceFailureIsNonFatal(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("disk full")}
	s := newTestStore(t, repo)

	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))

	assert.Equal(t, 1, s.Len(), "in-memory mutation must still apply")
}

func TestStore_RehydratesFromRepository(t *testing.T) {
	items := []Item{newTestItem("p1", "Scarf", "19.99")}
	items[0].Quantity = 4
	s := newTestStore(t, &mockRepo{loadItems: items})

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, 4, snapshot[0].Quantity)
}

func TestStore_RehydrationFailureStartsEmpty(t *testing.T) {
	s := newTestStore(t, &mockRepo{loadErr: errors.New("corrupt payload")})

	assert.Zero(t, s.Len())
}

func TestStore_Clear(t *testing.T) {
	repo := &mockRepo{}
	s := newTestStore(t, repo)
	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))
	s.AddOrIncrement(context.Background(), newTestItem("p2", "Bag", "49.00"))

	s.Clear(context.Background())

	assert.Zero(t, s.Len())
	assert.Empty(t, repo.saved[len(repo.saved)-1])
}

func TestStore_Clear_EmptyCartDoesNotPersist(t *testing.T) {
	repo := &mockRepo{}
	s := newTestStore(t, repo)

	s.Clear(context.Background())

	assert.Empty(t, repo.saved)
}

func TestStore_SubscribeReceivesSnapshots(t *testing.T) {
	s := newTestStore(t, &mockRepo{})

	var got [][]Item
	unsubscribe := s.Subscribe(func(items []Item) {
		got = append(got, items)
	})

	s.AddOrIncrement(context.Background(), newTestItem("p1", "Scarf", "19.99"))
	s.SetQuantity(context.Background(), "p1", 3)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0][0].Quantity)
	assert.Equal(t, 3, got[1][0].Quantity)

	unsubscribe()
	s.Remove(context.Background(), "p1")
	assert.Len(t, got, 2, "no notifications after unsubscribe")
}

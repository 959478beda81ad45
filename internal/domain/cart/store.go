package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store holds the authoritative ordered list of cart items shared between
// the cart display surface and the checkout flow. All readers receive
// independent snapshots; mutations go through the exported methods only.
//
// Every mutation is persisted through the Repository. Persistence failures
// are non-fatal: the in-memory mutation always takes effect, the failure is
// logged at warning level.
type Store struct {
	repo Repository
	lg   *zap.Logger

	mu      sync.Mutex
	items   []Item
	subs    map[int]func([]Item)
	nextSub int
}

// NewStore creates a Store rehydrated from the repository. An absent or
// unreadable persisted cart yields an empty store (with a warning), never an
// error: a broken local storage must not prevent the storefront from opening.
func NewStore(ctx context.Context, repo Repository, lg *zap.Logger) *Store {
	s := &Store{
		repo: repo,
		lg:   lg,
		subs: make(map[int]func([]Item)),
	}

	items, err := repo.Load(ctx)
	if err != nil {
		lg.Warn("cart rehydration failed, starting empty", zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// AddOrIncrement inserts item with quantity 1, or increments the quantity of
// the existing entry with the same ID. Items stay unique by ID: repeated
// adds never append duplicates.
func (s *Store) AddOrIncrement(ctx context.Context, item Item) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			s.afterMutation(ctx)
			return
		}
	}
	item.Quantity = 1
	s.items = append(s.items, item)
	s.afterMutation(ctx)
}

// SetQuantity sets the quantity for the item with the given ID. Requests for
// a quantity below 1 are silently ignored: removal is the only way to
// eliminate an item. Unknown IDs are a no-op.
func (s *Store) SetQuantity(ctx context.Context, id string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.afterMutation(ctx)
			return
		}
	}
	s.mu.Unlock()
}

// Remove deletes the item with the given ID. Removing an absent ID is a
// no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.afterMutation(ctx)
			return
		}
	}
	s.mu.Unlock()
}

// Clear removes every item. Used by the checkout flow after a successful
// order submission.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = nil
	s.afterMutation(ctx)
}

// Snapshot returns a deep, independent copy of the current item list in
// insertion order. Later mutations of the store never alter a snapshot
// already handed out.
func (s *Store) Snapshot() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Len returns the number of distinct items in the cart (the badge count on
// the storefront chrome).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers fn to be called with a fresh snapshot after every
// mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func([]Item)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// afterMutation persists the cart and notifies subscribers. Called with the
// mutex held; releases it before invoking subscriber callbacks so they can
// call back into the store.
func (s *Store) afterMutation(ctx context.Context) {
	snapshot := cloneItems(s.items)
	subs := make([]func([]Item), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.lg.Warn("cart persistence failed, in-memory state unaffected", zap.Error(err))
	}

	for _, fn := range subs {
		fn(cloneItems(snapshot))
	}
}

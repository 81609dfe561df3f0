package usecase

import (
	"sync"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// Snapshot is a point-in-time copy of the cached item collection
type Snapshot struct {
	Items  []domain.Item
	Loaded bool
}

// ItemStore is the client's cached copy of the item collection. It is replaced
// wholesale on reload and mutated in place only by favorite toggles.
type ItemStore struct {
	mutex  sync.RWMutex
	items  []domain.Item
	loaded bool
	closed bool

	// latest favorite mutation sequence per item id
	mutationSeq map[string]uint64
	nextSeq     uint64
}

// NewItemStore creates an empty, not-yet-loaded store
func NewItemStore() *ItemStore {
	return &ItemStore{
		mutationSeq: make(map[string]uint64),
	}
}

// Replace swaps in a freshly loaded collection
func (s *ItemStore) Replace(items []domain.Item) error {
	copied := make([]domain.Item, len(items))
	copy(copied, items)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return domain.ErrStoreClosed
	}
	s.items = copied
	s.loaded = true
	return nil
}

// Snapshot returns a copy of the current collection
func (s *ItemStore) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	items := make([]domain.Item, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items, Loaded: s.loaded}
}

// Get returns the cached item with the given id
func (s *ItemStore) Get(id string) (domain.Item, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.Item{}, false
}

// Close tears the store down; later reloads and mutation resolutions are dropped
func (s *ItemStore) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
}

// Closed reports whether the store has been torn down
func (s *ItemStore) Closed() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.closed
}

// flipFavorite flips the cached favorite flag and registers a new mutation for the item
func (s *ItemStore) flipFavorite(id string) (previous bool, seq uint64, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return false, 0, domain.ErrStoreClosed
	}

	i := s.indexOf(id)
	if i < 0 {
		return false, 0, domain.ErrItemNotFound
	}

	previous = s.items[i].Favorite
	s.items[i].Favorite = !previous

	s.nextSeq++
	s.mutationSeq[id] = s.nextSeq
	return previous, s.nextSeq, nil
}

// resolveFavorite sets the favorite flag to value if seq is still the latest
// mutation for the item. It reports whether local state changed hands.
func (s *ItemStore) resolveFavorite(id string, seq uint64, value bool) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed || s.mutationSeq[id] != seq {
		return false
	}
	delete(s.mutationSeq, id)

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items[i].Favorite = value
	return true
}

func (s *ItemStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

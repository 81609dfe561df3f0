package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// PendingMutation tracks one optimistic favorite toggle until the server answers
type PendingMutation struct {
	ItemID   string
	Previous bool

	done   chan struct{}
	result bool
	err    error
}

// Done is closed once the request has resolved and local state has been settled
func (p *PendingMutation) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the mutation resolves and returns the favorite value the
// server confirmed, or the request error (after local state was rolled back).
func (p *PendingMutation) Wait(ctx context.Context) (bool, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// FavoriteToggler applies favorite toggles to the local store immediately and
// confirms or rolls them back when the request completes
type FavoriteToggler struct {
	items domain.ItemCollection
	store *ItemStore

	// mu orders dispatches against Close so wg.Add never races wg.Wait
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewFavoriteToggler creates a toggler over the given collaborator and store
func NewFavoriteToggler(items domain.ItemCollection, store *ItemStore) *FavoriteToggler {
	return &FavoriteToggler{items: items, store: store}
}

// Toggle flips the item's favorite flag locally and issues the matching request
// without waiting for it. The returned mutation resolves when the request does.
func (t *FavoriteToggler) Toggle(ctx context.Context, id string) (*PendingMutation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, domain.ErrStoreClosed
	}

	previous, seq, err := t.store.flipFavorite(id)
	if err != nil {
		return nil, err
	}

	pending := &PendingMutation{
		ItemID:   id,
		Previous: previous,
		done:     make(chan struct{}),
	}

	t.wg.Add(1)
	go t.dispatch(ctx, pending, seq)

	return pending, nil
}

// Wait blocks until every dispatched toggle has resolved
func (t *FavoriteToggler) Wait() {
	t.wg.Wait()
}

// Close stops new toggles and waits for the dispatched ones to resolve
func (t *FavoriteToggler) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *FavoriteToggler) dispatch(ctx context.Context, pending *PendingMutation, seq uint64) {
	defer t.wg.Done()
	defer close(pending.done)

	item, err := t.items.SetFavorite(ctx, pending.ItemID, !pending.Previous)
	if err != nil {
		pending.err = err
		pending.result = pending.Previous
		if t.store.resolveFavorite(pending.ItemID, seq, pending.Previous) {
			log.Printf("[FAVORITE] Rolled back item %s to favorite=%v: %v", pending.ItemID, pending.Previous, err)
		}
		return
	}

	confirmed := !pending.Previous
	if item != nil {
		confirmed = item.Favorite
	}
	pending.result = confirmed
	t.store.resolveFavorite(pending.ItemID, seq, confirmed)
}

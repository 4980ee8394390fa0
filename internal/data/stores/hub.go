package stores

import (
	"sync"

	"github.com/colonyops/taskdeck/internal/core/task"
)

// hub fans whole-collection snapshots out to subscribers. Callbacks run on
// the publisher's goroutine; subscribers that need another execution context
// hand the snapshot off themselves. Delivery is serialized, so subscriber
// callbacks must not mutate the store.
type hub[T any] struct {
	mu   sync.Mutex
	subs map[int]func([]T)
	next int

	// deliverMu serializes snapshot delivery so a subscriber's initial
	// snapshot can never land after one carrying a later write.
	deliverMu sync.Mutex
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[int]func([]T))}
}

// subscribe registers fn and returns its unsubscribe handle.
func (h *hub[T]) subscribe(fn func([]T)) task.UnsubscribeFunc {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// subscribeAndDeliver registers fn, reads the current collection via read,
// and delivers it as the initial snapshot. Registration, read, and delivery
// happen as one unit with respect to publish: a mutation broadcasting
// concurrently either lands before the initial snapshot (which then reflects
// it) or after it.
func (h *hub[T]) subscribeAndDeliver(fn func([]T), read func() ([]T, error)) (task.UnsubscribeFunc, error) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	unsub := h.subscribe(fn)

	items, err := read()
	if err != nil {
		return unsub, err
	}
	fn(items)
	return unsub, nil
}

// publish delivers the snapshot to every subscriber. Each subscriber gets
// its own copy so none can mutate another's view.
func (h *hub[T]) publish(items []T) {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	h.mu.Lock()
	subs := make([]func([]T), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		snapshot := make([]T, len(items))
		copy(snapshot, items)
		fn(snapshot)
	}
}

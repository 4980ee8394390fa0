// Package deck wires the store, registry, event bus, and notification
// deriver into the services the TUI and CLI commands call.
package deck

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskdeck/internal/core/eventbus"
	"github.com/colonyops/taskdeck/internal/core/notify"
	"github.com/colonyops/taskdeck/internal/core/task"
)

// Notifier owns the active notification set. Task snapshots feed it through
// Refresh, action failures feed it through Push, and every change is
// published on the bus.
type Notifier struct {
	deriver *notify.Deriver
	bus     *eventbus.EventBus
	log     zerolog.Logger
	clock   func() time.Time

	mu     sync.Mutex
	active []notify.Notification
	userID string
}

// NewNotifier creates a notifier for the given session user.
func NewNotifier(bus *eventbus.EventBus, userID string, log zerolog.Logger) *Notifier {
	return &Notifier{
		deriver: notify.NewDeriver(),
		bus:     bus,
		log:     log.With().Str("component", "notifier").Logger(),
		clock:   time.Now,
		userID:  userID,
	}
}

// Refresh re-derives due-date notifications from a fresh task snapshot and
// merges them into the active set.
func (n *Notifier) Refresh(tasks []task.Task) {
	n.mu.Lock()
	n.active = n.deriver.Derive(tasks, n.userID, n.clock(), n.active)
	active := n.snapshot()
	n.mu.Unlock()

	n.publish(active)
}

// Push surfaces an ad-hoc notification, typically a failed store action.
// Reusing an id replaces the previous entry.
func (n *Notifier) Push(level notify.Level, id, message string) {
	n.mu.Lock()
	n.active = notify.Merge(n.active, []notify.Notification{{
		ID:        id,
		Level:     level,
		Message:   message,
		Timestamp: n.clock(),
	}})
	active := n.snapshot()
	n.mu.Unlock()

	n.publish(active)
}

// Dismiss removes a notification by id. Dismissing an unknown id is a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	kept := n.active[:0]
	for _, item := range n.active {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	n.active = kept
	active := n.snapshot()
	n.mu.Unlock()

	n.publish(active)
}

// Active returns a copy of the current notification set, newest first.
func (n *Notifier) Active() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

// snapshot copies the active set. Caller must hold the lock.
func (n *Notifier) snapshot() []notify.Notification {
	out := make([]notify.Notification, len(n.active))
	copy(out, n.active)
	return out
}

func (n *Notifier) publish(active []notify.Notification) {
	n.bus.PublishNotificationsUpdated(eventbus.NotificationsUpdatedPayload{Notifications: active})
}

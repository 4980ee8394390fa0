package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/taskdeck/internal/core/eventbus"
)

// stateChangedMsg tells the model to re-read the registry and notifier.
type stateChangedMsg struct{}

// SnapshotBridge coalesces bus events into drain signals the update loop can
// wait on. Snapshots replace wholesale, so collapsing a burst of events into
// one redraw loses nothing.
type SnapshotBridge struct {
	mu      sync.Mutex
	dirty   bool
	signal  chan struct{}
	unsubs  []func()
	stopped bool
}

// NewSnapshotBridge creates a bridge and attaches it to the bus.
func NewSnapshotBridge(bus *eventbus.EventBus) *SnapshotBridge {
	b := &SnapshotBridge{
		signal: make(chan struct{}, 1),
	}

	b.unsubs = append(b.unsubs,
		bus.SubscribeTasksUpdated(func(eventbus.TasksUpdatedPayload) { b.mark() }),
		bus.SubscribeUsersUpdated(func(eventbus.UsersUpdatedPayload) { b.mark() }),
		bus.SubscribeNotificationsUpdated(func(eventbus.NotificationsUpdatedPayload) { b.mark() }),
	)

	return b
}

// mark flags pending state and emits a non-blocking signal.
func (b *SnapshotBridge) mark() {
	b.mu.Lock()
	b.dirty = true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain reports whether state changed since the last drain.
func (b *SnapshotBridge) Drain() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	was := b.dirty
	b.dirty = false
	return was
}

// WaitForSignal blocks until there is fresh state to render.
func (b *SnapshotBridge) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return stateChangedMsg{}
	}
}

// Close detaches the bridge from the bus.
func (b *SnapshotBridge) Close() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	unsubs := b.unsubs
	b.unsubs = nil
	b.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}

	// Unblock a pending WaitForSignal.
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

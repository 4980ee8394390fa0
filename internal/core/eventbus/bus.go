// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within taskdeck.
package eventbus

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Event identifies an event type on the bus.
type Event string

const (
	EventTasksUpdated         Event = "tasks.updated"
	EventUsersUpdated         Event = "users.updated"
	EventNotificationsUpdated Event = "notifications.updated"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches typed events to subscribers from a single goroutine.
// Publishing never blocks: events are dropped when the buffer is full, which
// is acceptable because every payload is a full snapshot and the next one
// supersedes anything missed.
type EventBus struct {
	ch  chan envelope
	log zerolog.Logger

	mu   sync.RWMutex
	subs map[Event][]*subscriber

	wg sync.WaitGroup
}

type subscriber struct {
	fn func(any)
}

// New creates an event bus with the given buffer size.
func New(buffer int, log zerolog.Logger) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		log:  log.With().Str("component", "eventbus").Logger(),
		subs: make(map[Event][]*subscriber),
	}
}

// Start launches the dispatch goroutine. It runs until ctx is canceled.
func (bus *EventBus) Start(ctx context.Context) {
	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case env := <-bus.ch:
				bus.dispatch(env)
			}
		}
	}()
}

// Wait blocks until the dispatch goroutine has exited.
func (bus *EventBus) Wait() {
	bus.wg.Wait()
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]*subscriber, len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.log.Error().Any("recovered", r).Str("event", string(env.event)).Msg("subscriber panicked")
				}
			}()
			sub.fn(env.payload)
		}()
	}
}

func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
	default:
		bus.log.Warn().Str("event", string(event)).Msg("event dropped, buffer full")
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) func() {
	sub := &subscriber{fn: fn}

	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], sub)
	bus.mu.Unlock()

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		subs := bus.subs[event]
		for i, s := range subs {
			if s == sub {
				bus.subs[event] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Package eventbus implements a typed publish/subscribe channel.
//
// The bus has no knowledge of its subscribers: publishers emit events keyed
// by the event's own type string, and any number of handlers may listen per
// type. Dispatch is synchronous from the publisher's perspective and iterates
// a snapshot of the handler set, so a handler may safely unsubscribe itself
// or others while an event is being delivered.
package eventbus

import (
	"sync"
	"unsafe"

	"github.com/streamlens/streamlens/internal/logger"
)

// Event is anything that can be published on the bus.
type Event interface {
	// EventType returns the routing key for the event.
	EventType() string
}

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id   uint64
	fn   Handler
	ptr  uintptr // handler identity, used to de-duplicate subscriptions
	once bool
}

// handlerID returns the address of the func value's underlying funcval.
// Distinct closures created from the same function literal share a code
// pointer but have distinct funcvals, so this must not be the code pointer
// (reflect.Value.Pointer). The subscription keeps the handler alive, so the
// address cannot be reused while it is registered.
func handlerID(h Handler) uintptr {
	return *(*uintptr)(unsafe.Pointer(&h))
}

// Bus routes events to subscribed handlers by event type.
// The zero value is not usable; create one with New.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers a handler for the given event type and returns a
// function that removes it. Subscribing the same handler function twice for
// one event type is a no-op; the returned unsubscribe still works.
// Handlers are invoked in subscription order.
func (b *Bus) Subscribe(eventType string, h Handler) func() {
	return b.add(eventType, h, false)
}

// SubscribeOnce registers a handler that is removed after its first
// delivery. The returned function removes it early.
func (b *Bus) SubscribeOnce(eventType string, h Handler) func() {
	return b.add(eventType, h, true)
}

func (b *Bus) add(eventType string, h Handler, once bool) func() {
	if h == nil {
		return func() {}
	}
	ptr := handlerID(h)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs[eventType] {
		if s.ptr == ptr {
			id := s.id
			return func() { b.remove(eventType, id) }
		}
	}

	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, fn: h, ptr: ptr, once: once})
	return func() { b.remove(eventType, id) }
}

func (b *Bus) remove(eventType string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every handler subscribed to its type.
// A panicking handler is recovered and logged; delivery continues with the
// remaining handlers.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}

	b.mu.Lock()
	subs := b.subs[e.EventType()]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	// Once-handlers are consumed by this delivery; drop them before
	// releasing the lock so a concurrent publish cannot fire them twice.
	remaining := subs[:0]
	for _, s := range subs {
		if !s.once {
			remaining = append(remaining, s)
		}
	}
	b.subs[e.EventType()] = remaining
	b.mu.Unlock()

	for _, s := range snapshot {
		deliver(s.fn, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked on %q: %v", e.EventType(), r)
		}
	}()
	h(e)
}

// UnsubscribeAll removes every handler for the given event types, or every
// handler on the bus when no type is given.
func (b *Bus) UnsubscribeAll(eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.subs = make(map[string][]subscription)
		return
	}
	for _, t := range eventTypes {
		delete(b.subs, t)
	}
}

// HandlerCount returns the number of handlers registered for an event type.
func (b *Bus) HandlerCount(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventType])
}

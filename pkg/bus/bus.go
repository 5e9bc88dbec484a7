// Package bus provides the in-process notification channel that decouples
// task-mutating components from task-displaying ones. Delivery is synchronous
// and scoped to a single process: no queue, no retry, no persistence.
package bus

import (
	"sync"

	"go.uber.org/zap"
)

// Event names the complete signal vocabulary between the core and
// independently rendered fragments.
type Event string

const (
	// EventTaskUpdated signals the task set may have changed; consumers
	// showing aggregate task data should refresh. No payload.
	EventTaskUpdated Event = "task-updated"
	// EventTaskActivity carries one domain.ActivityEvent payload.
	EventTaskActivity Event = "task-activity"
	// EventTokenExpired signals a 401 was detected somewhere deep in a
	// request path; the session owner reacts by logging out. No payload.
	EventTokenExpired Event = "token-expired"
)

// Handler receives the payload published with an event.
type Handler func(payload interface{})

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a process-wide, multi-consumer publish/subscribe registry.
// Handlers for a given publish run synchronously in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Event][]subscription
	nextID uint64
	logger *zap.Logger
}

// New creates an empty bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[Event][]subscription),
		logger: logger,
	}
}

// Subscribe registers a handler for name and returns its disposer.
// Consumers must call the disposer on teardown to avoid leaks.
func (b *Bus) Subscribe(name Event, handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[name]
		for i, sub := range list {
			if sub.id == id {
				b.subs[name] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers payload to every subscriber of name, in subscription
// order. It is fire-and-forget: publishing with zero subscribers is a no-op
// and a panicking handler never reaches the publisher.
func (b *Bus) Publish(name Event, payload interface{}) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[name]))
	copy(list, b.subs[name])
	b.mu.RUnlock()

	for _, sub := range list {
		b.invoke(name, sub.handler, payload)
	}
}

func (b *Bus) invoke(name Event, handler Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", string(name)),
				zap.Any("panic", r))
		}
	}()
	handler(payload)
}

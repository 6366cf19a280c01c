// Package events provides the lifecycle event bus. The composition layer
// publishes namespace and window lifecycle events so hosts can observe
// registration, builds, stale cleanups and store purges without hooking the
// internals.
package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/windowkit/domain/gui"
)

// Lifecycle event names.
const (
	NamespaceRegistered = "namespace.registered"
	WindowBuilt         = "window.built"
	WindowStale         = "window.stale"
	StorePurged         = "store.purged"
)

// Event represents a published lifecycle event.
type Event struct {
	// Name is the event name (e.g. "window.built").
	Name string

	// Namespace is the window namespace the event concerns.
	Namespace string

	// User is the affected user, when the event is user-scoped.
	User gui.UserID

	// Data contains event-specific details.
	Data map[string]any
}

// Handler is a function that processes an event.
type Handler func(ctx context.Context, event Event) error

// Bus is a simple publish/subscribe event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   zerolog.Logger
}

// NewBus creates a new event bus.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers a handler for an event name.
// Supports wildcard subscriptions:
//   - "window.built" - exact match
//   - "window.*" - all window events
//   - "*" - all events
func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Publish emits an event to all matching handlers, synchronously and in
// registration order. Handler errors are logged, not propagated.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.logger.Debug().
		Str("event", event.Name).
		Str("namespace", event.Namespace).
		Str("user", string(event.User)).
		Msg("event emitted")

	var matched []Handler

	if handlers, ok := b.handlers[event.Name]; ok {
		matched = append(matched, handlers...)
	}

	// Prefix wildcard (e.g. "window.*").
	if prefix, ok := eventPrefix(event.Name); ok {
		if handlers, ok := b.handlers[prefix+".*"]; ok {
			matched = append(matched, handlers...)
		}
	}

	if handlers, ok := b.handlers["*"]; ok {
		matched = append(matched, handlers...)
	}

	for _, handler := range matched {
		if err := handler(ctx, event); err != nil {
			b.logger.Error().
				Err(err).
				Str("event", event.Name).
				Msg("event handler error")
		}
	}
}

// PublishAsync emits an event asynchronously; handlers run in a goroutine.
func (b *Bus) PublishAsync(ctx context.Context, event Event) {
	go b.Publish(ctx, event)
}

// HasSubscribers checks if any handlers are registered for an event name.
func (b *Bus) HasSubscribers(event string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.handlers[event]) > 0 {
		return true
	}
	if prefix, ok := eventPrefix(event); ok {
		if len(b.handlers[prefix+".*"]) > 0 {
			return true
		}
	}
	return len(b.handlers["*"]) > 0
}

// eventPrefix returns the part of the name before the first dot.
func eventPrefix(name string) (string, bool) {
	for i, c := range name {
		if c == '.' {
			return name[:i], true
		}
	}
	return "", false
}

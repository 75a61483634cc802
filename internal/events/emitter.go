package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is an in-memory Emitter dispatching events synchronously to every
// registered handler, optionally filtered by event type.
type Bus struct {
	handlers []subscription
	mu       sync.RWMutex
	logger   *slog.Logger
}

type subscription struct {
	eventType string
	handler   Handler
}

// NewBus creates an empty Bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers a handler for one event type. An empty type receives
// every event.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, subscription{eventType: eventType, handler: handler})
	b.logger.Debug("registered event handler", "event_type", eventType, "handler_count", len(b.handlers))
}

// Emit publishes event to the matching handlers. Every handler runs even
// when an earlier one fails; the first error is returned.
func (b *Bus) Emit(ctx context.Context, event *Event) error {
	b.mu.RLock()
	handlers := make([]subscription, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	b.logger.Debug("emitting event", "event_id", event.ID, "event_type", event.Type)

	var firstErr error
	for i, sub := range handlers {
		if sub.eventType != "" && sub.eventType != event.Type {
			continue
		}
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			b.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Publish builds an event from payload and emits it.
func (b *Bus) Publish(ctx context.Context, eventType string, payload interface{}) error {
	event, err := New(eventType, payload)
	if err != nil {
		return err
	}
	return b.Emit(ctx, event)
}

var _ Emitter = (*Bus)(nil)

// Package events provides an explicit observer for application notifications.
//
// Services emit events such as "generation completed" or "keys updated"
// through an Emitter they own. Interested components register handlers
// instead of listening on ambient global state.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a notification published by the application core.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// New creates an Event with the given type and JSON-encoded payload.
func New(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// Handler processes events.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// GenerationCompleted is the payload of a generation.completed event.
type GenerationCompleted struct {
	BatchID string   `json:"batchId,omitempty"`
	Model   string   `json:"model"`
	Results []string `json:"results"`
}

// KeysUpdated is the payload of a keys.updated event.
type KeysUpdated struct {
	Provider string `json:"provider"`
	Removed  bool   `json:"removed,omitempty"`
}

// ConfigLoaded is the payload of a config.loaded event.
type ConfigLoaded struct {
	Path   string `json:"path"`
	Models int    `json:"models"`
}

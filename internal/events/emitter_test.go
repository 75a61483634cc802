package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	handled   int
	lastEvent *Event
	err       error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *Event) error {
	h.handled++
	h.lastEvent = event
	return h.err
}

func TestBus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		bus := NewBus(logger)
		event, err := New("test-event", map[string]string{"key": "value"})
		require.NoError(t, err)

		assert.NoError(t, bus.Emit(context.Background(), event))
	})

	t.Run("handlers filtered by type", func(t *testing.T) {
		bus := NewBus(logger)
		completed := &recordingHandler{}
		keys := &recordingHandler{}
		all := &recordingHandler{}
		bus.Subscribe("generation.completed", completed)
		bus.Subscribe("keys.updated", keys)
		bus.Subscribe("", all)

		require.NoError(t, bus.Publish(context.Background(), "generation.completed", GenerationCompleted{Model: "GPT 4"}))

		assert.Equal(t, 1, completed.handled)
		assert.Equal(t, 0, keys.handled)
		assert.Equal(t, 1, all.handled)

		var payload GenerationCompleted
		require.NoError(t, completed.lastEvent.UnmarshalPayload(&payload))
		assert.Equal(t, "GPT 4", payload.Model)
	})

	t.Run("failing handler does not stop others", func(t *testing.T) {
		bus := NewBus(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		success := &recordingHandler{}
		bus.Subscribe("", failing)
		bus.Subscribe("", success)

		err := bus.Publish(context.Background(), "keys.updated", KeysUpdated{Provider: "openai"})
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())
		assert.Equal(t, 1, failing.handled)
		assert.Equal(t, 1, success.handled)
	})

	t.Run("handler func adapter", func(t *testing.T) {
		bus := NewBus(nil)
		var seen string
		bus.Subscribe("config.loaded", HandlerFunc(func(_ context.Context, e *Event) error {
			seen = e.Type
			return nil
		}))

		require.NoError(t, bus.Publish(context.Background(), "config.loaded", ConfigLoaded{Path: "/tmp/x"}))
		assert.Equal(t, "config.loaded", seen)
	})
}

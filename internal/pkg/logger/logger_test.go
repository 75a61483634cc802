package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" error ": slog.LevelError,
		"warn":    slog.LevelWarn,
		"bogus":   slog.LevelWarn,
		"":        slog.LevelWarn,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "level %q", input)
	}
}

func TestNewJSONHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: "json", Writer: &buf})

	log.Debug("hidden")
	log.Info("shown", "provider", "openai")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "openai", record["provider"])
}

func TestNewVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "error", Writer: &buf, Verbose: true})

	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

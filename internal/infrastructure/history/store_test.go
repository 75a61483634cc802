package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/pkg/logger"
	"github.com/doeshing/prompty-go/internal/ports"
)

func backends(t *testing.T) map[string]func(t *testing.T) ports.HistoryRepository {
	return map[string]func(t *testing.T) ports.HistoryRepository{
		"sqlite": func(t *testing.T) ports.HistoryRepository {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
		"jsonl": func(t *testing.T) ports.HistoryRepository {
			return NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
		},
	}
}

func entry(id string, at time.Time, batch string) domain.HistoryEntry {
	cfg := domain.PromptConfig{Model: "gpt-3.5-turbo", PrefixText: "masterpiece,"}
	cfg.Set("subject", "landscape")
	cfg.Set("style", "fantasy", "surrealism")
	return domain.HistoryEntry{
		ID:        id,
		Prompt:    "prompt " + id,
		Config:    cfg,
		Timestamp: at,
		ModelUsed: "GPT 3.5 Turbo",
		BatchID:   batch,
	}
}

func TestAppendAndListNewestFirst(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			require.NoError(t, store.Append(ctx, entry("a", base, "")))
			require.NoError(t, store.Append(ctx, entry("b", base.Add(time.Minute), "batch-1")))
			require.NoError(t, store.Append(ctx, entry("c", base.Add(2*time.Minute), "batch-1")))

			entries, err := store.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, []string{"c", "b", "a"}, ids(entries))

			got := entries[0]
			assert.Equal(t, "prompt c", got.Prompt)
			assert.Equal(t, "GPT 3.5 Turbo", got.ModelUsed)
			assert.Equal(t, "batch-1", got.BatchID)
			assert.True(t, got.Timestamp.Equal(base.Add(2*time.Minute)))
			assert.Equal(t, "gpt-3.5-turbo", got.Config.Model)
			assert.Equal(t, "masterpiece,", got.Config.PrefixText)
			assert.Equal(t, []string{"fantasy", "surrealism"}, got.Config.Values("style"))
			assert.Empty(t, entries[2].BatchID)

			limited, err := store.List(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "b"}, ids(limited))
		})
	}
}

func TestDeleteAndClear(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, store.Append(ctx, entry("a", now, "")))
			require.NoError(t, store.Append(ctx, entry("b", now.Add(time.Second), "")))

			require.NoError(t, store.Delete(ctx, "a"))
			assert.ErrorIs(t, store.Delete(ctx, "a"), ErrNotFound)

			entries, err := store.List(ctx, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, ids(entries))

			require.NoError(t, store.Clear(ctx))
			entries, err = store.List(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestPruneOlderThan(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, store.Append(ctx, entry("old", now.Add(-48*time.Hour), "")))
			require.NoError(t, store.Append(ctx, entry("new", now, "")))

			removed, err := store.PruneOlderThan(ctx, 24*time.Hour)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			entries, err := store.List(ctx, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"new"}, ids(entries))
		})
	}
}

func TestExportJSON(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, store.Append(ctx, entry("a", now, "")))
			require.NoError(t, store.Append(ctx, entry("b", now.Add(time.Second), "")))

			dest := filepath.Join(t.TempDir(), "out", "export.jsonl")
			require.NoError(t, store.ExportJSON(ctx, dest))

			file, err := os.Open(dest)
			require.NoError(t, err)
			defer file.Close()

			var exported []string
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				var e domain.HistoryEntry
				require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
				exported = append(exported, e.ID)
			}
			assert.Equal(t, []string{"b", "a"}, exported)
		})
	}
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, entry("a", time.Now(), "")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(entries))
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	sqlite := Open(domain.HistorySettings{Backend: domain.HistoryBackendSQLite}, dir, logger.Discard())
	assert.Equal(t, filepath.Join(dir, "history.db"), sqlite.Path())
	if closer, ok := sqlite.(*SQLiteStore); ok {
		t.Cleanup(func() { _ = closer.Close() })
	}

	jsonl := Open(domain.HistorySettings{Backend: domain.HistoryBackendJSONL}, dir, logger.Discard())
	assert.Equal(t, filepath.Join(dir, "history.jsonl"), jsonl.Path())

	custom := filepath.Join(dir, "elsewhere", "log.jsonl")
	explicit := Open(domain.HistorySettings{Backend: domain.HistoryBackendJSONL, Path: custom}, dir, logger.Discard())
	assert.Equal(t, custom, explicit.Path())
}

func ids(entries []domain.HistoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

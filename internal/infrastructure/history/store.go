// Package history persists successful generations. SQLite is the default
// backend; a JSON-lines file serves as the fallback.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/pkg/filesystem"
	"github.com/doeshing/prompty-go/internal/ports"
)

// ErrNotFound is returned by Delete when no entry has the given id.
var ErrNotFound = errors.New("history entry not found")

// Open returns the repository selected by settings, rooted at dir when
// settings.Path is empty. A SQLite database that cannot be opened falls back
// to the JSON-lines store next to it.
func Open(settings domain.HistorySettings, dir string, logger *slog.Logger) ports.HistoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Path != "" {
		dir = filepath.Dir(filesystem.ExpandPath(settings.Path))
	}

	jsonlPath := filepath.Join(dir, "history.jsonl")
	if settings.Backend == domain.HistoryBackendJSONL {
		if settings.Path != "" {
			jsonlPath = filesystem.ExpandPath(settings.Path)
		}
		return NewFileStore(jsonlPath)
	}

	dbPath := filepath.Join(dir, "history.db")
	if settings.Path != "" {
		dbPath = filesystem.ExpandPath(settings.Path)
	}
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn("sqlite history unavailable, using jsonl", "component", "history", "path", dbPath, "error", err)
		return NewFileStore(jsonlPath)
	}
	return store
}

// sortNewestFirst orders entries by timestamp, latest first. Entries with
// equal timestamps keep their reverse insertion order.
func sortNewestFirst(entries []domain.HistoryEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

func limitEntries(entries []domain.HistoryEntry, limit int) []domain.HistoryEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// writeJSONLines writes one JSON document per entry to dest.
func writeJSONLines(dest string, entries []domain.HistoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("encode entry %s: %w", entry.ID, err)
		}
	}
	return file.Sync()
}

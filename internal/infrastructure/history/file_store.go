package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

// FileStore appends history entries to a jsonl file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the jsonl file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append implements ports.HistoryStore.
func (f *FileStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// List returns up to limit entries, newest first. A limit of 0 means all.
func (f *FileStore) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	entries, err := f.read()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(entries)
	return limitEntries(entries, limit), nil
}

// Delete removes the entry with id.
func (f *FileStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	kept := entries[:0]
	found := false
	for _, entry := range entries {
		if entry.ID == id {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return ErrNotFound
	}
	return f.rewrite(kept)
}

// Clear removes the history file.
func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ExportJSON writes every entry, newest first, to dest as jsonl.
func (f *FileStore) ExportJSON(ctx context.Context, dest string) error {
	entries, err := f.List(ctx, 0)
	if err != nil {
		return err
	}
	return writeJSONLines(dest, entries)
}

// PruneOlderThan drops entries older than age and reports how many went.
func (f *FileStore) PruneOlderThan(_ context.Context, age time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-age)
	kept := entries[:0]
	for _, entry := range entries {
		if entry.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, entry)
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, f.rewrite(kept)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// read loads all entries in file order, skipping lines that do not decode.
func (f *FileStore) read() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.HistoryEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal(line, &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

func (f *FileStore) rewrite(entries []domain.HistoryEntry) error {
	tmp := f.path + ".tmp"
	if err := writeJSONLines(tmp, entries); err != nil {
		return err
	}
	if err := os.Chmod(tmp, domain.SecureFilePermissions); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

var _ ports.HistoryRepository = (*FileStore)(nil)

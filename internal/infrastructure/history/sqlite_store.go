package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

// timestampLayout is fixed-width UTC so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		config TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		model_used TEXT NOT NULL,
		batch_id TEXT
	);
	CREATE INDEX IF NOT EXISTS prompts_timestamp ON prompts(timestamp);`)
	return err
}

// Append inserts a new entry.
func (s *SQLiteStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	config, err := json.Marshal(entry.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `INSERT INTO prompts
		(id, prompt, config, timestamp, model_used, batch_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Prompt,
		string(config),
		entry.Timestamp.UTC().Format(timestampLayout),
		entry.ModelUsed,
		nullable(entry.BatchID),
	)
	return err
}

// List returns up to limit entries, newest first. A limit of 0 means all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	query := "SELECT id, prompt, config, timestamp, model_used, batch_id FROM prompts ORDER BY timestamp DESC, rowid DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			entry   domain.HistoryEntry
			config  string
			ts      string
			batchID sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Prompt, &config, &ts, &entry.ModelUsed, &batchID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(config), &entry.Config); err != nil {
			return nil, fmt.Errorf("decode config of %s: %w", entry.ID, err)
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			entry.Timestamp = t
		}
		entry.BatchID = batchID.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes the entry with id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM prompts")
	return err
}

// ExportJSON writes the prompts table to a jsonl file.
func (s *SQLiteStore) ExportJSON(ctx context.Context, dest string) error {
	entries, err := s.List(ctx, 0)
	if err != nil {
		return err
	}
	return writeJSONLines(dest, entries)
}

// PruneOlderThan deletes entries older than age.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age).UTC().Format(timestampLayout)

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM prompts WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)

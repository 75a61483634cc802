package domain

import "time"

// HistoryEntry captures one successful generation.
type HistoryEntry struct {
	ID        string       `json:"id"`
	Prompt    string       `json:"prompt"`
	Config    PromptConfig `json:"config"`
	Timestamp time.Time    `json:"timestamp"`
	ModelUsed string       `json:"modelUsed"`
	BatchID   string       `json:"batchId,omitempty"`
}

// InBatch reports whether the entry belongs to a batch.
func (h HistoryEntry) InBatch() bool {
	return h.BatchID != ""
}

// CacheEntry is a cached generation keyed by configuration fingerprint.
type CacheEntry struct {
	Key       string    `json:"key"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the entry is older than ttl at now.
func (e CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) >= ttl
}

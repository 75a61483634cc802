package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

// ResponseCache keeps generated prompts in memory for one adapter.
// Expiry is lazy: no janitor runs, an expired entry simply reads as absent
// until the next Set overwrites it.
type ResponseCache struct {
	store  *gocache.Cache
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache activity since construction.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// New creates a ResponseCache whose entries live for ttl (one hour when ttl
// is not positive).
func New(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	return &ResponseCache{
		store: gocache.New(ttl, 0),
		ttl:   ttl,
	}
}

// Get returns the live entry stored under key.
func (c *ResponseCache) Get(key string) (domain.CacheEntry, bool) {
	if key == "" {
		return domain.CacheEntry{}, false
	}
	value, ok := c.store.Get(key)
	if !ok {
		c.misses.Add(1)
		return domain.CacheEntry{}, false
	}
	entry, ok := value.(domain.CacheEntry)
	if !ok {
		c.misses.Add(1)
		return domain.CacheEntry{}, false
	}
	c.hits.Add(1)
	return entry, true
}

// Set stores prompt under key, replacing any previous entry.
func (c *ResponseCache) Set(key, prompt string) {
	if key == "" {
		return
	}
	c.store.Set(key, domain.CacheEntry{
		Key:       key,
		Prompt:    prompt,
		CreatedAt: time.Now(),
	}, gocache.DefaultExpiration)
}

// Len counts live entries.
func (c *ResponseCache) Len() int {
	return len(c.store.Items())
}

// Flush drops every entry.
func (c *ResponseCache) Flush() {
	c.store.Flush()
}

// TTL returns the configured entry lifetime.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// Stats returns a snapshot of entry and hit counters.
func (c *ResponseCache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

var _ ports.ResponseCache = (*ResponseCache)(nil)

package concepts

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	content  string
	storedAt time.Time
}

// Cache memoizes concept explanations for a fixed TTL. Entries are never
// evicted, only ignored once stale; the concept vocabulary is small enough
// that unbounded growth is acceptable.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func normalizeKey(concept string) string {
	return strings.ToLower(strings.TrimSpace(concept))
}

// Get returns the cached explanation for concept, if one exists and is
// still fresh.
func (c *Cache) Get(concept string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[normalizeKey(concept)]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return "", false
	}
	return e.content, true
}

func (c *Cache) Put(concept, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[normalizeKey(concept)] = entry{content: content, storedAt: c.now()}
}

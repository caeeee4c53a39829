package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/search"
)

// Cache stores suggestion lists by query.
type Cache interface {
	GetSuggestions(ctx context.Context, query string) ([]string, bool, error)
	PutSuggestions(ctx context.Context, query string, list []string, ttl time.Duration) error
}

// Cached serves suggestions from cache and falls through to next on a miss.
// Cache failures only cost a remote fetch.
type Cached struct {
	next  search.Suggester
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

func NewCached(next search.Suggester, cache Cache, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) Suggest(ctx context.Context, query string) ([]string, error) {
	list, ok, err := c.cache.GetSuggestions(ctx, query)
	if err != nil {
		c.log.Warn("suggestion cache read failed", logger.String("query", query), logger.Error(err))
	}
	if ok {
		return list, nil
	}

	list, err = c.next.Suggest(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := c.cache.PutSuggestions(ctx, query, list, c.ttl); err != nil {
		c.log.Warn("suggestion cache write failed", logger.String("query", query), logger.Error(err))
	}
	return list, nil
}

// MemoryCache is a process-local Cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	list    []string
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) GetSuggestions(_ context.Context, query string) ([]string, bool, error) {
	key := cacheKey(query)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]string(nil), e.list...), true, nil
}

func (m *MemoryCache) PutSuggestions(_ context.Context, query string, list []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[cacheKey(query)] = memoryEntry{
		list:    append([]string(nil), list...),
		expires: m.now().Add(ttl),
	}
	return nil
}

func cacheKey(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Prune drops expired entries and reports how many were removed.
func (m *MemoryCache) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of cached queries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

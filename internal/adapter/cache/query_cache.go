package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"careerpilot/internal/domain"
)

// QueryCache is an LRU cache of query results with a TTL. Entries from an
// older index generation are never served.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	results   []domain.QueryResult
	timestamp time.Time
	indexGen  uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, topK int) string {
	data := []byte(query)
	data = append(data, byte(topK>>8), byte(topK))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(query string, topK int) ([]domain.QueryResult, bool) {
	c.mu.RLock()
	key := cacheKey(query, topK)
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return cloneResults(entry.results), true
}

func (c *QueryCache) Put(query string, topK int, results []domain.QueryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, topK)
	entry := &cacheEntry{
		results:   cloneResults(results),
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops every entry and starts a new index generation.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

// SyncGeneration invalidates the cache if gen differs from the generation
// it was last synced to.
func (c *QueryCache) SyncGeneration(gen uint64) {
	c.mu.RLock()
	same := c.indexGen == gen
	c.mu.RUnlock()
	if same {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexGen != gen {
		c.entries = make(map[string]*cacheEntry)
		c.order = c.order[:0]
		c.indexGen = gen
	}
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func cloneResults(results []domain.QueryResult) []domain.QueryResult {
	if results == nil {
		return nil
	}
	out := make([]domain.QueryResult, len(results))
	copy(out, results)
	return out
}

// Retriever is a corpus whose contents change only with its generation.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error)
	Generation() uint64
}

// CachedRetriever serves repeated queries from a QueryCache until the
// underlying corpus is rebuilt.
type CachedRetriever struct {
	retriever Retriever
	cache     *QueryCache
}

func NewCachedRetriever(retriever Retriever, cache *QueryCache) *CachedRetriever {
	return &CachedRetriever{
		retriever: retriever,
		cache:     cache,
	}
}

func (r *CachedRetriever) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	r.cache.SyncGeneration(r.retriever.Generation())

	if results, hit := r.cache.Get(text, k); hit {
		return results, nil
	}

	results, err := r.retriever.Query(ctx, text, k)
	if err != nil {
		return nil, err
	}

	r.cache.Put(text, k, results)

	return results, nil
}

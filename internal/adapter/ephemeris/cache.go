package ephemeris

import (
	"context"
	"fmt"
	"sync"

	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/observability"
	"github.com/skyglow/horizon-events/internal/scheduler"
)

// CachedSource wraps a scheduler.Source with an in-memory LRU cache. A
// (location, date) pair is immutable for the whole day, so a hit saves a
// round trip without any freshness concern.
type CachedSource struct {
	inner   scheduler.Source
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a precision source.
func NewCachedSource(inner scheduler.Source, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Events serves from cache when possible; errors are never cached.
func (c *CachedSource) Events(ctx context.Context, loc domain.GeoLocation, date domain.Date) (scheduler.Result, error) {
	key := fmt.Sprintf("%d|%d|%d|%d", loc.LatE6, loc.LonE6, loc.UTCOffsetMin, date.Stamp())
	if res, ok := c.cache.get(key); ok {
		c.metrics.EphemerisCache.WithLabelValues("hit").Inc()
		return res, nil
	}
	c.metrics.EphemerisCache.WithLabelValues("miss").Inc()

	res, err := c.inner.Events(ctx, loc, date)
	if err != nil {
		return res, err
	}
	c.cache.put(key, res)
	return res, nil
}

// lruCache is a simple thread-safe LRU cache for day results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value scheduler.Result
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (scheduler.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return scheduler.Result{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value scheduler.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

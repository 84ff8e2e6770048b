package utm

import (
	"sync"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
)

// CacheRecorder observes cache lookups.
type CacheRecorder interface {
	ObserveProjectionCache(hit bool)
}

// CachedProjector wraps a Projector with an in-memory LRU cache. Registers
// repeat the same intersections many times.
type CachedProjector struct {
	inner    domain.Projector
	cache    *lruCache
	recorder CacheRecorder
}

// NewCachedProjector creates a cache decorator around a projector. recorder
// may be nil.
func NewCachedProjector(inner domain.Projector, maxEntries int, recorder CacheRecorder) *CachedProjector {
	return &CachedProjector{
		inner:    inner,
		cache:    newLRUCache(maxEntries),
		recorder: recorder,
	}
}

func (c *CachedProjector) ToLatLon(easting, northing int) (domain.LatLon, error) {
	key := gridKey{easting, northing}
	if result, ok := c.cache.get(key); ok {
		c.observe(true)
		return result, nil
	}
	c.observe(false)

	result, err := c.inner.ToLatLon(easting, northing)
	if err != nil {
		return result, err
	}
	c.cache.put(key, result)
	return result, nil
}

func (c *CachedProjector) observe(hit bool) {
	if c.recorder != nil {
		c.recorder.ObserveProjectionCache(hit)
	}
}

type gridKey struct {
	easting  int
	northing int
}

// lruCache is a simple thread-safe LRU cache of projected positions.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[gridKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   gridKey
	value domain.LatLon
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[gridKey]*entry),
	}
}

func (c *lruCache) get(key gridKey) (domain.LatLon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.LatLon{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key gridKey, value domain.LatLon) {
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

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
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

package weatherapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedProvider wraps a WeatherProvider with an in-memory LRU cache whose
// entries expire after a fixed TTL.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a weather provider.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedProvider) CurrentConditions(ctx context.Context, location string) (domain.CurrentConditions, error) {
	key := cacheKey(location)
	result, status := c.cache.get(key)
	if status == cacheHit {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		result.Location.Query = location
		return result, nil
	}
	c.metrics.WeatherCache.WithLabelValues(string(status)).Inc()

	result, err := c.inner.CurrentConditions(ctx, location)
	if err != nil {
		return result, err
	}
	c.cache.put(key, result)
	return result, nil
}

// cacheKey normalizes a location so "Chennai " and "chennai" share an entry.
func cacheKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

type cacheStatus string

const (
	cacheHit     cacheStatus = "hit"
	cacheMiss    cacheStatus = "miss"
	cacheExpired cacheStatus = "expired"
)

// lruCache is a simple thread-safe LRU cache for CurrentConditions.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.CurrentConditions
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.CurrentConditions, cacheStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.CurrentConditions{}, cacheMiss
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.CurrentConditions{}, cacheExpired
	}
	c.moveToFront(e)
	return e.value, cacheHit
}

func (c *lruCache) put(key string, value domain.CurrentConditions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
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

package data

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	series any
	exp    time.Time
}

// ttlCache is an in-process cache keyed "SYMBOL|period|interval" with a
// wall-clock expiry check on read.
type ttlCache struct {
	mu sync.RWMutex
	m  map[string]cacheEntry
}

func newTTLCache() *ttlCache {
	return &ttlCache{m: make(map[string]cacheEntry)}
}

func cacheKey(symbol, period, interval string) string {
	return strings.ToUpper(symbol) + "|" + period + "|" + interval
}

func (c *ttlCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.series, true
}

func (c *ttlCache) Set(key string, v any, ttl time.Duration) {
	c.mu.Lock()
	c.m[key] = cacheEntry{series: v, exp: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *ttlCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

package catalog

import (
	"sync"
	"time"
)

// CacheItem combines cached data and a creation time in a single struct.
// This can be useful for implementing the Cache interface, but is not necessarily required.
// See the InMemoryCache example implementation of the Cache interface for its usage.
type CacheItem struct {
	Data    []byte
	Created time.Time
}

// Cache is the interface that the Service uses for caching translated results.
// The data is JSON-encoded by the Service.
// Usually you create a simple wrapper around an existing cache package.
// An example implementation is the InMemoryCache in this package.
type Cache interface {
	Set(key string, data []byte) error
	Get(key string) ([]byte, time.Time, bool, error)
}

var _ Cache = (*InMemoryCache)(nil)

// InMemoryCache is an example implementation of the Cache interface.
// It never evicts entries, which is fine for the handful of keys the Service uses.
type InMemoryCache struct {
	cache map[string]CacheItem
	lock  *sync.RWMutex
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: map[string]CacheItem{},
		lock:  &sync.RWMutex{},
	}
}

// Set stores the data and the current time in the cache.
func (c *InMemoryCache) Set(key string, data []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cache[key] = CacheItem{
		Data:    data,
		Created: time.Now(),
	}
	return nil
}

// Get returns the data and the time it was cached from the cache.
// The boolean return value signals if the value was found in the cache.
func (c *InMemoryCache) Get(key string) ([]byte, time.Time, bool, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	cacheItem, found := c.cache[key]
	return cacheItem.Data, cacheItem.Created, found, nil
}

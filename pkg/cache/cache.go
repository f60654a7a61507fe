package cache

import (
	"sync"
	"time"
)

type item struct {
	value      interface{}
	expiration int64
}

// Cache is a small in-process TTL cache. It backs the aggregate counts shown
// on every page so each render does not hit the database.
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
	stop  chan struct{}
}

func NewCache() *Cache {
	c := &Cache{
		items: make(map[string]item),
		stop:  make(chan struct{}),
	}
	go c.gcLoop()
	return c
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || time.Now().UnixNano() > it.expiration {
		return nil, false
	}
	return it.value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Close stops the background sweeper
func (c *Cache) Close() {
	close(c.stop)
}

func (c *Cache) gcLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now().UnixNano()
			c.mu.Lock()
			for k, v := range c.items {
				if now > v.expiration {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

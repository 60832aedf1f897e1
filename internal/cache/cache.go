// Package cache provides thread-safe generic caching used for page views,
// syntax stylesheets and static asset hashes.
package cache

import "sync"

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Take removes key and returns the value it held.
func (c *Cache[K, V]) Take(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.items[key]
	delete(c.items, key)
	return val, ok
}

// DeleteFunc removes every entry for which del returns true and returns
// the removed values.
func (c *Cache[K, V]) DeleteFunc(del func(K, V) bool) []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []V
	for k, v := range c.items {
		if del(k, v) {
			removed = append(removed, v)
			delete(c.items, k)
		}
	}
	return removed
}

// Range calls fn for each entry until fn returns false. fn must not
// modify the cache.
func (c *Cache[K, V]) Range(fn func(K, V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.items {
		if !fn(k, v) {
			return
		}
	}
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

// Package cache provides the in-memory TTL cache injected into components
// that memoize expensive loads (threshold files, collector responses).
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is a simple in-memory TTL cache. Expired entries are dropped lazily
// on read and swept periodically to reclaim map memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache that runs periodic cleanup until Close is called.
func New() *Memory {
	c := &Memory{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Get returns the cached value if present and not expired.
func (c *Memory) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Put stores a value with the given TTL. Non-positive TTLs store nothing.
func (c *Memory) Put(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Stats reports hit and miss counts since creation.
func (c *Memory) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *Memory) Close() {
	close(c.stop)
}

// cleanup rebuilds the map every 5 minutes, dropping expired entries.
func (c *Memory) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			fresh := make(map[string]entry, len(c.entries)/2)
			for k, v := range c.entries {
				if now.Before(v.expiresAt) {
					fresh[k] = v
				}
			}
			c.entries = fresh
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

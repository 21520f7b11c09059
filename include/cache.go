// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package include

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

type entry struct {
	text   string
	stored time.Time
}

// Cache maps document locations to their text. Entries older than the TTL
// are treated as absent; a zero TTL keeps entries until they are evicted.
// At most maxEntries documents are kept, least recently used first out; zero
// means no limit. Concurrent writers of the same location race, and the last
// one wins.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries *lru.Cache
}

func NewCache(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: lru.New(maxEntries),
	}
}

// Get returns the cached text for location, if present and fresh
func (c *Cache) Get(location string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(location)
	if !ok {
		return "", false
	}
	e := v.(entry)
	if c.ttl > 0 && c.now().Sub(e.stored) > c.ttl {
		c.entries.Remove(location)
		return "", false
	}
	return e.text, true
}

// Put stores the text for location
func (c *Cache) Put(location, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(location, entry{text: text, stored: c.now()})
}

// Purge drops every entry
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Clear()
}

// Len returns the number of stored entries, including stale ones
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

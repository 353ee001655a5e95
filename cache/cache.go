// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides read-through caches for frame material.
// Ciphertext frames are immutable and content-addressed, so the FIFO
// cache never expires entries; parameter lookups reflect mutable chain
// state and use the TTL cache instead.
package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc fetches the value for a key on cache miss.
type FetchFunc[K comparable, V any] func(K) (V, error)

// FIFO is a bounded cache with first-in-first-out eviction and
// single-flight fetching. Intended for content-addressed, immutable
// values: once present, an entry is valid until evicted.
type FIFO[K comparable, V any] struct {
	lock     sync.RWMutex
	entries  map[K]V
	queue    []K
	capacity int
	group    singleflight.Group
}

// NewFIFO returns a FIFO cache holding at most capacity entries. A
// capacity below one is clamped to one so Get never has to evict from
// an empty queue.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &FIFO[K, V]{
		entries:  make(map[K]V, capacity),
		queue:    make([]K, 0, capacity),
		capacity: capacity,
	}
}

// Get returns the cached value for key, fetching it with fetch on a
// miss. Concurrent fetches for the same key are deduplicated.
func (c *FIFO[K, V]) Get(key K, fetch FetchFunc[K, V]) (V, error) {
	c.lock.RLock()
	if v, ok := c.entries[key]; ok {
		c.lock.RUnlock()
		return v, nil
	}
	c.lock.RUnlock()

	v, err, _ := c.group.Do(keyToString(key), func() (interface{}, error) {
		newValue, fetchErr := fetch(key)
		if fetchErr != nil {
			return *new(V), fetchErr
		}
		c.lock.Lock()
		if _, ok := c.entries[key]; !ok {
			if len(c.queue) >= c.capacity {
				oldest := c.queue[0]
				c.queue = c.queue[1:]
				delete(c.entries, oldest)
			}
			c.entries[key] = newValue
			c.queue = append(c.queue, key)
		}
		c.lock.Unlock()
		return newValue, nil
	})
	if err != nil {
		return *new(V), err
	}
	return v.(V), nil
}

// Len returns the number of cached entries.
func (c *FIFO[K, V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.entries)
}

type ttlEntry[V any] struct {
	value     V
	timestamp time.Time
}

// TTL is a cache with per-key expiry and single-flight fetching, for
// values that track mutable chain state.
type TTL[K comparable, V any] struct {
	lock    sync.RWMutex
	entries map[K]ttlEntry[V]
	ttl     time.Duration
	group   singleflight.Group
}

// NewTTL returns a TTL cache whose entries expire after ttl.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		entries: make(map[K]ttlEntry[V]),
		ttl:     ttl,
	}
}

// Get returns a fresh cached value for key, fetching with fetch when the
// entry is missing or stale. If invalidate is true the entry is cleared
// first so no reader observes the stale value while the fetch runs.
func (c *TTL[K, V]) Get(key K, fetch FetchFunc[K, V], invalidate bool) (V, error) {
	if invalidate {
		c.lock.Lock()
		delete(c.entries, key)
		c.lock.Unlock()
	} else {
		c.lock.RLock()
		entry, ok := c.entries[key]
		c.lock.RUnlock()
		if ok && time.Since(entry.timestamp) < c.ttl {
			return entry.value, nil
		}
	}

	v, err, _ := c.group.Do(keyToString(key), func() (interface{}, error) {
		newValue, fetchErr := fetch(key)
		if fetchErr != nil {
			return *new(V), fetchErr
		}
		c.lock.Lock()
		c.entries[key] = ttlEntry[V]{value: newValue, timestamp: time.Now()}
		c.lock.Unlock()
		return newValue, nil
	})
	if err != nil {
		return *new(V), err
	}
	return v.(V), nil
}

// keyToString allows both fmt.Stringer and primitive key types.
func keyToString[K comparable](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}

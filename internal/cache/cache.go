// Package cache provides the in-memory scan cache used by the index.
//
// Each named slot holds one value together with the key it was computed
// for. The whole slot map is an immutable snapshot behind an atomic
// pointer: readers never block, and writers publish a modified copy with
// compare-and-swap. Computation always happens outside of any critical
// section, so two callers racing on a stale slot may both recompute; the
// last one to publish wins.
package cache

import (
	"slices"
	"sync/atomic"
	"time"
)

// Key identifies the external state a value was computed from.
// Keys compare by value.
type Key []string

// Equal reports whether two keys hold the same roots in the same order.
func (k Key) Equal(other Key) bool {
	return slices.Equal(k, other)
}

// Entry is a cached value with the key it belongs to.
type Entry struct {
	Key     Key
	Value   any
	Updated time.Time
}

type snapshot map[string]*Entry

// Cache is a set of named slots. The zero value is not usable; use New.
type Cache struct {
	state  atomic.Pointer[snapshot]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an empty cache.
func New() *Cache {
	c := &Cache{}
	empty := snapshot{}
	c.state.Store(&empty)
	return c
}

// Lookup returns the value stored in slot if it was computed for key.
func (c *Cache) Lookup(slot string, key Key) (any, bool) {
	entry, ok := (*c.state.Load())[slot]
	if !ok || !entry.Key.Equal(key) {
		return nil, false
	}
	return entry.Value, true
}

// Store publishes value for slot under key, replacing any previous entry.
func (c *Cache) Store(slot string, key Key, value any) {
	entry := &Entry{Key: slices.Clone(key), Value: value, Updated: time.Now()}
	for {
		old := c.state.Load()
		next := make(snapshot, len(*old)+1)
		for name, e := range *old {
			next[name] = e
		}
		next[slot] = entry
		if c.state.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Flush drops every slot in one atomic step.
func (c *Cache) Flush() {
	empty := snapshot{}
	c.state.Store(&empty)
}

// GetOrCompute returns the value cached in slot for key, or runs compute,
// stores its result and returns it.
func GetOrCompute[T any](c *Cache, slot string, key Key, compute func() T) T {
	if v, ok := c.Lookup(slot, key); ok {
		if typed, ok := v.(T); ok {
			c.hits.Add(1)
			return typed
		}
	}
	c.misses.Add(1)
	value := compute()
	c.Store(slot, key, value)
	return value
}

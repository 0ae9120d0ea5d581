package cache

import (
	"sync"
	"time"
)

// EntityCache is a process-wide mirror of a server-owned collection keyed
// by id. A nil snapshot means the collection was never loaded, which is
// distinct from a loaded but empty collection. The cache is mutated either
// by a full replace (fetch completion) or by targeted upsert/remove (push
// events); every mutation stamps the last-fetch time, so a superseded
// fetch response that lands late simply loses on wall-clock ordering.
type EntityCache[T any] struct {
	mu        sync.Mutex
	items     []T
	loaded    bool
	lastFetch time.Time

	idOf     func(T) int
	onMutate func()
	now      func() time.Time
}

func NewEntityCache[T any](idOf func(T) int) *EntityCache[T] {
	return &EntityCache[T]{
		idOf: idOf,
		now:  time.Now,
	}
}

// SetOnMutate registers a hook fired synchronously after every mutation,
// before the mutating call returns. Dependent state (rank maps, derived
// indexes) is rebuilt in the hook, so a reader scheduled right after a
// mutation never observes the cache and its derivations out of sync.
func (c *EntityCache[T]) SetOnMutate(fn func()) {
	c.mu.Lock()
	c.onMutate = fn
	c.mu.Unlock()
}

// Get returns a copy of the cached collection, or nil if it was never
// loaded.
func (c *EntityCache[T]) Get() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// SetAll replaces the whole collection with a fresh snapshot.
func (c *EntityCache[T]) SetAll(items []T) {
	c.mu.Lock()
	c.items = make([]T, len(items))
	copy(c.items, items)
	c.loaded = true
	c.lastFetch = c.now()
	fn := c.onMutate
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Upsert replaces the item with the same id, or appends it. While the
// cache was never loaded this is a no-op: a single push event is not a
// substitute for the initial fetch, callers must trigger a full load.
func (c *EntityCache[T]) Upsert(item T) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return
	}
	id := c.idOf(item)
	replaced := false
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, item)
	}
	c.lastFetch = c.now()
	fn := c.onMutate
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Remove deletes the item with the given id. Removing an absent id, or
// removing from a never-loaded cache, is a no-op rather than an error.
func (c *EntityCache[T]) Remove(id int) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return
	}
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.lastFetch = c.now()
	fn := c.onMutate
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// IsStale reports whether the collection must be refreshed from the
// source of truth. A never-loaded cache is always stale.
func (c *EntityCache[T]) IsStale(maxAge time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return true
	}
	return c.now().Sub(c.lastFetch) > maxAge
}

func (c *EntityCache[T]) LastFetch() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFetch
}

// Loaded reports whether an initial snapshot ever arrived.
func (c *EntityCache[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Package reconcile keeps a client-side copy of the Customer Service orders
// and menu, merged from pushed events with periodic full re-syncs.
package reconcile

import "sync"

// Outcome of applying a pushed event to a local copy.
type Outcome int

const (
	Applied Outcome = iota
	Ignored
	// NeedsResync means the event referenced a record the cache does not
	// know; only a full re-sync can recover it.
	NeedsResync
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Ignored:
		return "ignored"
	case NeedsResync:
		return "needs-resync"
	}
	return "unknown"
}

// Cache is an ordered list of records keyed by id.
type Cache[T any] struct {
	idOf func(T) string

	mu    sync.RWMutex
	items []T
}

func NewCache[T any](idOf func(T) string) *Cache[T] {
	return &Cache[T]{idOf: idOf}
}

// Load replaces the contents. Duplicate ids keep their first occurrence.
func (c *Cache[T]) Load(list []T) {
	seen := make(map[string]struct{}, len(list))
	items := make([]T, 0, len(list))
	for _, v := range list {
		id := c.idOf(v)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		items = append(items, v)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *Cache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Insert adds v at the front or back. A known id is replaced in place.
func (c *Cache[T]) Insert(v T, front bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(c.idOf(v)); i >= 0 {
		c.items[i] = v
		return
	}
	if front {
		c.items = append([]T{v}, c.items...)
		return
	}
	c.items = append(c.items, v)
}

// Replace swaps the record with v's id and reports whether it was present.
func (c *Cache[T]) Replace(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(c.idOf(v))
	if i < 0 {
		return false
	}
	c.items[i] = v
	return true
}

// Update applies fn to the record with id in place.
func (c *Cache[T]) Update(id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&c.items[i])
	return true
}

func (c *Cache[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// indexOf needs c.mu held.
func (c *Cache[T]) indexOf(id string) int {
	for i, v := range c.items {
		if c.idOf(v) == id {
			return i
		}
	}
	return -1
}

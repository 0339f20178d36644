package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/proposive/rfpbase/core"
)

// DefaultMaxSize is the default entry capacity.
const DefaultMaxSize = 100

type entry struct {
	value     any
	createdAt time.Time
}

// Cache is a size-bounded, time-expiring memoization table shared by
// all callers that hold a reference to it. A single lock guards the
// table; it is held only around map access, never around the wrapped
// operation. Two concurrent misses for the same key may therefore both
// execute the underlying operation — the last writer wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	maxSize int
	clock   func() time.Time

	hits   int64
	misses int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxSize sets the entry capacity. Values below 1 fall back to
// DefaultMaxSize.
func WithMaxSize(size int) Option {
	return func(c *Cache) {
		if size >= 1 {
			c.maxSize = size
		}
	}
}

// WithClock sets the time source. Used in tests to advance time past
// entry TTLs without sleeping.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates a cache with the default capacity and wall clock.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		maxSize: DefaultMaxSize,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KeyFor derives a stable cache key from an operation identity and its
// arguments. Positional args are order-sensitive; keyword args are
// sorted by name first, so the same keyword set in any order yields the
// same key. The canonical string is folded to a compact digest with
// core.HashUint64.
func KeyFor(op string, args []any, kwargs map[string]string) string {
	var b strings.Builder
	b.WriteString(op)
	b.WriteByte(':')
	fmt.Fprintf(&b, "%v", args)
	b.WriteByte(':')

	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%s;", name, kwargs[name])
	}

	return strconv.FormatUint(core.HashUint64(b.String()), 16)
}

// Do returns the cached value for key if a live entry exists, otherwise
// invokes fn, stores its result, and runs capacity eviction. Expiry is
// checked lazily here; expired entries are dropped on lookup, not
// swept. An error from fn is returned without caching anything.
func (c *Cache) Do(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	now := c.clock()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if now.Sub(e.createdAt) < ttl {
			c.hits++
			c.mu.Unlock()
			return e.value, nil
		}
		delete(c.entries, key)
	}
	c.misses++
	c.mu.Unlock()

	value, err := fn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, createdAt: c.clock()}
	c.evictLocked()
	c.mu.Unlock()

	return value, nil
}

// Contains reports whether a live entry exists for key without
// touching hit/miss counters.
func (c *Cache) Contains(key string, ttl time.Duration) bool {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && now.Sub(e.createdAt) < ttl
}

// Len returns the current entry count, expired entries included
// (they count toward capacity until looked up).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Stats describes cache occupancy and effectiveness.
type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// evictLocked removes oldest-by-insertion entries until the table is at
// or under capacity. Caller must hold the lock.
func (c *Cache) evictLocked() {
	over := len(c.entries) - c.maxSize
	if over <= 0 {
		return
	}

	type aged struct {
		key       string
		createdAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key: key, createdAt: e.createdAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].createdAt.Before(all[j].createdAt)
	})

	for i := 0; i < over; i++ {
		delete(c.entries, all[i].key)
	}
}

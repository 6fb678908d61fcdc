package parcel

import (
	"errors"
	"sync"
)

var errNotFound = errors.New("cache entry not found")

type cacheEntry[V any] struct {
	val V
	err error
}

// cache is a concurrency-safe memo of derived values. Entries are
// either a value or a sticky error.
type cache[K comparable, V any] struct {
	m sync.Map
}

// Get returns the cached value for k. If k has not been cached, Get
// returns errNotFound.
func (c *cache[K, V]) Get(k K) (V, error) {
	ent, ok := c.m.Load(k)
	if !ok {
		var zero V
		return zero, errNotFound
	}
	e := ent.(cacheEntry[V])
	return e.val, e.err
}

// Set caches v for k, unless another goroutine got there first.
func (c *cache[K, V]) Set(k K, v V) {
	c.m.LoadOrStore(k, cacheEntry[V]{val: v})
}

// SetErr caches err for k, unless another goroutine got there first.
func (c *cache[K, V]) SetErr(k K, err error) {
	c.m.LoadOrStore(k, cacheEntry[V]{err: err})
}

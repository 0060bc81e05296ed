package pykachu

import (
	"fmt"
	"reflect"
	"sync"
)

// cache is a concurrency-safe table of per-type derived values, used
// for struct shape information. Struct shapes are immutable at runtime,
// so entries never expire.
type cache[V any] struct {
	m sync.Map
}

func (c *cache[V]) Get(t reflect.Type) (val V, found bool) {
	ent, ok := c.m.Load(t)
	if !ok {
		var zero V
		return zero, false
	}
	if val, ok := ent.(V); ok {
		return val, true
	}
	panic(fmt.Sprintf("mystery value %v (%T) in cache", ent, ent))
}

func (c *cache[V]) Put(t reflect.Type, val V) {
	c.m.Store(t, val)
}

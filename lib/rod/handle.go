package rod

import "fmt"

// Handle is one unit of keep-alive ownership over an entry of a RodMap.
// The entry stays in the map as long as at least one handle for its key has
// not been released. A handle carries no payload of its own, it only holds the
// key and a pointer to the state it shares with the map and all other handles.
//
// Handles are not safe for concurrent use. Every handle must be released
// exactly once, typically with a deferred Release.
type Handle[K comparable, V any] struct {
	s        *state[K, V]
	key      K
	released bool
}

func newHandle[K comparable, V any](s *state[K, V], key K) *Handle[K, V] {
	return &Handle[K, V]{
		s:   s,
		key: key,
	}
}

// Key returns the key the handle is bound to. This is the key as stored in the
// index, which can differ from the key passed to Get for indexes with a custom
// notion of key equality.
func (h *Handle[K, V]) Key() K {
	return h.key
}

// Value returns the value the handle keeps alive.
// ok is false once the handle was released.
func (h *Handle[K, V]) Value() (value V, ok bool) {
	if h.released {
		return value, false
	}
	return h.s.index.Get(h.key)
}

// Clone creates a second, independent handle for the same key.
// The entry now needs one more Release before it is evicted.
func (h *Handle[K, V]) Clone() (*Handle[K, V], error) {
	if h.released {
		return nil, ErrHandleReleased
	}

	h.s.refs.Acquire(h.key)
	h.s.metrics.clone()

	return newHandle(h.s, h.key), nil
}

// Release gives up this handle's reference. If it was the last one, the entry
// is removed from the map before Release returns.
// Releasing a handle twice returns ErrHandleReleased and changes nothing.
func (h *Handle[K, V]) Release() error {
	if h.released {
		return ErrHandleReleased
	}

	h.released = true
	h.s.release(h.key)
	return nil
}

// Released reports whether Release was called on this handle
func (h *Handle[K, V]) Released() bool {
	return h.released
}

// Valid reports whether the handle is not released and its key resolves to a value
func (h *Handle[K, V]) Valid() bool {
	if h.released {
		return false
	}
	_, ok := h.s.index.Get(h.key)
	return ok
}

// Equal reports whether both handles resolve to the same live entry: they
// belong to the same map, are bound to the same key and that key currently
// maps to a value. Two distinct handles obtained by Insert and Get are equal.
func (h *Handle[K, V]) Equal(other *Handle[K, V]) bool {
	if h == nil || other == nil {
		return false
	}
	return h.s == other.s && h.key == other.key && h.Valid() && other.Valid()
}

func (h *Handle[K, V]) String() string {
	return fmt.Sprintf("Handle{Key: %v, Released: %t}", h.key, h.released)
}

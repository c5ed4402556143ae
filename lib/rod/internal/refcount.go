package internal

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Reference count table
// --------------------------------------------------------------------------

// RefCountTable maps a key to its number of outstanding handles.
// A key without handles has no record: the record is removed in the same
// step that would bring its count to zero.
//
// Thread-safety: single calls are atomic per key, sequences of calls are not.
// Callers sharing a table between goroutines need external synchronization.
type RefCountTable[K comparable] struct {
	counts *xsync.MapOf[K, uint32]
	total  atomic.Uint64 // sum of all counts
}

// NewRefCountTable creates an empty reference count table
func NewRefCountTable[K comparable]() *RefCountTable[K] {
	return &RefCountTable[K]{
		counts: xsync.NewMapOf[K, uint32](),
	}
}

// Acquire adds one reference to key and returns the resulting count.
// A key without a record starts at 1. Acquire panics if the count would overflow;
// the record is left unchanged then.
func (t *RefCountTable[K]) Acquire(key K) uint32 {
	overflow := false
	count, _ := t.counts.Compute(key, func(old uint32, _ bool) (uint32, bool) {
		if old == math.MaxUint32 {
			overflow = true
			return old, false
		}
		return old + 1, false
	})

	// panic only after Compute returned, the bucket is locked during the callback
	if overflow {
		panic(fmt.Sprintf("reference count overflow for key %v", key))
	}

	t.total.Add(1)
	return count
}

// Release removes one reference from key.
//
//   - remaining: the count after the release
//   - last: true if this was the last reference, the record is gone
//   - ok: false if the key had no record, nothing was changed
func (t *RefCountTable[K]) Release(key K) (remaining uint32, last bool, ok bool) {
	t.counts.Compute(key, func(old uint32, loaded bool) (uint32, bool) {
		if !loaded {
			return old, true // set delete to true because else the value will be created
		}

		ok = true
		remaining = old - 1
		last = remaining == 0
		return remaining, last
	})

	if ok {
		t.total.Add(^uint64(0))
	}
	return remaining, last, ok
}

// Count returns the number of outstanding references for key (0 if there is no record)
func (t *RefCountTable[K]) Count(key K) uint32 {
	count, _ := t.counts.Load(key)
	return count
}

// Len returns the number of keys with at least one reference
func (t *RefCountTable[K]) Len() int {
	return t.counts.Size()
}

// Total returns the sum of all reference counts
func (t *RefCountTable[K]) Total() uint64 {
	return t.total.Load()
}

// Range calls fn for every key and its count until fn returns false
func (t *RefCountTable[K]) Range(fn func(key K, count uint32) bool) {
	t.counts.Range(fn)
}

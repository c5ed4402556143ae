package rod

import (
	"cmp"
	"fmt"

	"github.com/ValentinKolb/rod/lib/index"
	"github.com/ValentinKolb/rod/lib/index/engines/hash"
	"github.com/ValentinKolb/rod/lib/index/engines/ordered"
	"github.com/ValentinKolb/rod/lib/rod/internal"
	"github.com/ValentinKolb/rod/lib/util"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("rod")

// --------------------------------------------------------------------------
// Shared state
// --------------------------------------------------------------------------

// state is the block shared by a RodMap and all of its handles.
// The index and the reference count table always agree: a key is in the
// index exactly when it has a positive count. The index decides key identity,
// counts are only ever taken on keys as they are stored in the index.
type state[K comparable, V any] struct {
	index   index.Index[K, V]
	refs    *internal.RefCountTable[K]
	policy  DuplicatePolicy
	name    string
	metrics *rodMetrics
}

// release drops one reference to key and evicts the entry if it was the last one.
func (s *state[K, V]) release(key K) {
	_, last, ok := s.refs.Release(key)
	if !ok {
		// a live handle always has a count record
		panic(fmt.Sprintf("rod(%s): release of key %v without reference count", s.name, key))
	}

	if last {
		s.index.Remove(key)
		log.Debugf("%s: last handle released, evicted key %v", s.name, key)
	}
	s.metrics.release(last)
}

// --------------------------------------------------------------------------
// RodMap
// --------------------------------------------------------------------------

// RodMap is a key-value container whose entries are removed on drop:
// an entry lives exactly as long as at least one Handle for its key is unreleased.
//
// Thread-safety: RodMap is not safe for concurrent use. Hosts sharing a map
// between goroutines must guard every Insert, Get, Clone and Release with
// the same lock.
type RodMap[K comparable, V any] struct {
	s *state[K, V]
}

// Info holds statistics about a RodMap
type Info struct {
	Name            string     `json:"name"`
	DuplicatePolicy string     `json:"duplicate_policy"`
	LiveKeys        int        `json:"live_keys"`
	LiveHandles     uint64     `json:"live_handles"`
	RefCounts       util.Stats `json:"ref_counts"`
	Index           index.Info `json:"index"`
}

// New creates an empty RodMap on top of the given index with the specified options (optional).
// The index must be empty and must not be used by anything else afterwards.
func New[K comparable, V any](idx index.Index[K, V], opts *Options) *RodMap[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}
	if idx.Len() != 0 {
		panic("rod: New requires an empty index")
	}

	name := opts.Name
	if name == "" {
		name = DefaultOptions().Name
	}
	if opts.Metrics != nil {
		// gauges are bound to a single map, two maps must not share a label
		if unique := registerName(opts.Metrics, name); unique != name {
			log.Warningf("map name %q is already used in this metrics set, using %q", name, unique)
			name = unique
		}
	}

	s := &state[K, V]{
		index:  idx,
		refs:   internal.NewRefCountTable[K](),
		policy: opts.DuplicatePolicy,
		name:   name,
	}
	s.metrics = newRodMetrics(opts.Metrics, s)

	return &RodMap[K, V]{s: s}
}

// NewHash creates an empty RodMap backed by an unordered hash index
func NewHash[K comparable, V any](opts *Options) *RodMap[K, V] {
	return New[K, V](hash.NewHashIndex[K, V](nil), opts)
}

// NewOrdered creates an empty RodMap backed by an ordered index
func NewOrdered[K cmp.Ordered, V any](opts *Options) *RodMap[K, V] {
	return New[K, V](ordered.NewOrderedIndex[K, V](nil), opts)
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Insert stores value under key and returns the first handle for it.
//
// If the key still has live handles, the outcome depends on the DuplicatePolicy:
// with DuplicateReject (default) ErrKeyOccupied is returned and nothing changes,
// with DuplicateReplace the value is overwritten and an additional handle is returned.
// A key whose last handle was released can always be inserted again and starts over.
//
// Whether a key is live is decided by the index: for an ordered index with a custom
// less function, keys that are equal under less are the same key and the handle is
// bound to the key that is already stored. Keys that are not equal to themselves
// (floating point NaN) are rejected with ErrInvalidKey.
func (m *RodMap[K, V]) Insert(key K, value V) (*Handle[K, V], error) {
	s := m.s

	// NaN != NaN, such a key could never be looked up or released again
	if key != key {
		return nil, NewError(CodeInvalidKey, fmt.Sprintf("key %v is not equal to itself", key))
	}

	if stored, _, live := s.index.Lookup(key); live {
		if s.policy != DuplicateReplace {
			s.metrics.rejectInsert()
			log.Debugf("%s: rejected insert of live key %v", s.name, key)
			return nil, NewError(CodeKeyOccupied, fmt.Sprintf("key %v already has live handles", key))
		}
		key = stored
	}

	s.index.Put(key, value)
	s.refs.Acquire(key)
	s.metrics.insert()

	return newHandle(s, key), nil
}

// --------------------------------------------------------------------------
// Query Operations
// --------------------------------------------------------------------------

// Get returns a new handle for key if it is live. The caller owns the handle
// and must release it. ok is false if the key is absent, nothing changes then.
// The handle is bound to the key as stored in the index.
func (m *RodMap[K, V]) Get(key K) (h *Handle[K, V], ok bool) {
	s := m.s

	stored, _, ok := s.index.Lookup(key)
	if !ok {
		s.metrics.get(false)
		return nil, false
	}

	s.refs.Acquire(stored)
	s.metrics.get(true)

	return newHandle(s, stored), true
}

// Do runs fn with the value of key while holding a handle for it. The handle is
// released on every exit path, including a panic in fn.
// found is false if the key is absent, fn is not called then.
func (m *RodMap[K, V]) Do(key K, fn func(value V) error) (found bool, err error) {
	h, ok := m.Get(key)
	if !ok {
		return false, nil
	}
	defer h.Release()

	value, _ := h.Value()
	return true, fn(value)
}

// Contains reports whether key is live without creating a handle
func (m *RodMap[K, V]) Contains(key K) bool {
	_, ok := m.s.index.Get(key)
	return ok
}

// Count returns the number of unreleased handles for key (0 if the key is absent)
func (m *RodMap[K, V]) Count(key K) uint32 {
	stored, _, ok := m.s.index.Lookup(key)
	if !ok {
		return 0
	}
	return m.s.refs.Count(stored)
}

// Len returns the number of live keys
func (m *RodMap[K, V]) Len() int {
	return m.s.index.Len()
}

// IsEmpty reports whether the map has no live keys
func (m *RodMap[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Range calls fn for every live entry until fn returns false.
// Entries are visited in index order, which is ascending for ordered indexes.
// fn must not insert or release handles of this map.
func (m *RodMap[K, V]) Range(fn func(key K, value V) bool) {
	m.s.index.Range(fn)
}

// Keys returns a snapshot of all live keys in index order
func (m *RodMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.s.index.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// AscendRange calls fn for every live entry with from <= key < to in ascending order
// until fn returns false. ErrUnsupported is returned if the index cannot answer range queries.
func (m *RodMap[K, V]) AscendRange(from, to K, fn func(key K, value V) bool) error {
	ordIdx, ok := m.s.index.(index.OrderedIndex[K, V])
	if !ok || !ordIdx.SupportsFeature(index.FeatureRangeQuery) {
		return ErrUnsupported
	}

	ordIdx.AscendRange(from, to, fn)
	return nil
}

// --------------------------------------------------------------------------
// Features and Metadata
// --------------------------------------------------------------------------

// SupportsFeature checks if the underlying index supports the specified feature
func (m *RodMap[K, V]) SupportsFeature(feature index.Feature) bool {
	return m.s.index.SupportsFeature(feature)
}

// Info returns statistics about the map
func (m *RodMap[K, V]) Info() Info {
	s := m.s

	counts := make([]float64, 0, s.refs.Len())
	s.refs.Range(func(_ K, count uint32) bool {
		counts = append(counts, float64(count))
		return true
	})

	return Info{
		Name:            s.name,
		DuplicatePolicy: s.policy.String(),
		LiveKeys:        s.index.Len(),
		LiveHandles:     s.refs.Total(),
		RefCounts:       util.NewStats(counts),
		Index:           s.index.GetInfo(),
	}
}

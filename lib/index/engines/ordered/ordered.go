package ordered

import (
	"cmp"

	"github.com/ValentinKolb/rod/lib/index"
	"github.com/google/btree"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultDegree = 32 // Default B-tree degree (max 2*degree-1 items per node)
)

// --------------------------------------------------------------------------
// Core ordered index structure
// --------------------------------------------------------------------------

// entry is the item stored in the B-tree. Only the key takes part in ordering.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// orderedImpl implements a sorted index backed by a generic B-tree
type orderedImpl[K comparable, V any] struct {
	tree   *btree.BTreeG[entry[K, V]]
	degree int
}

// Options configures the ordered index during initialization
type Options struct {
	Degree int // B-tree degree (0 = use default: 32)
}

// DefaultOptions returns the default ordered index options
func DefaultOptions() *Options {
	return &Options{
		Degree: defaultDegree,
	}
}

// NewOrderedIndex creates a new ordered index for keys with a natural ordering
func NewOrderedIndex[K cmp.Ordered, V any](opts *Options) index.OrderedIndex[K, V] {
	return NewOrderedIndexFunc[K, V](cmp.Less[K], opts)
}

// NewOrderedIndexFunc creates a new ordered index that sorts keys with the given less function.
// less must define a strict weak ordering; keys for which neither less(a, b) nor less(b, a)
// holds are treated as the same key.
func NewOrderedIndexFunc[K comparable, V any](less func(a, b K) bool, opts *Options) index.OrderedIndex[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}

	degree := opts.Degree
	if degree < 2 {
		degree = defaultDegree
	}

	return &orderedImpl[K, V]{
		tree: btree.NewG[entry[K, V]](degree, func(a, b entry[K, V]) bool {
			return less(a.key, b.key)
		}),
		degree: degree,
	}
}

// --------------------------------------------------------------------------
// Index Interface Methods
// --------------------------------------------------------------------------

// Put stores the value and returns the previous one if the key existed.
func (o *orderedImpl[K, V]) Put(key K, value V) (V, bool) {
	old, replaced := o.tree.ReplaceOrInsert(entry[K, V]{key: key, value: value})
	return old.value, replaced
}

// Get retrieves the value for a key.
func (o *orderedImpl[K, V]) Get(key K) (V, bool) {
	e, ok := o.tree.Get(entry[K, V]{key: key})
	return e.value, ok
}

// Remove deletes the key and returns its value if it existed.
func (o *orderedImpl[K, V]) Remove(key K) (V, bool) {
	e, ok := o.tree.Delete(entry[K, V]{key: key})
	return e.value, ok
}

// Lookup retrieves the value and the stored key for any key that is equal under less.
func (o *orderedImpl[K, V]) Lookup(key K) (K, V, bool) {
	e, ok := o.tree.Get(entry[K, V]{key: key})
	if !ok {
		return key, e.value, false
	}
	return e.key, e.value, true
}

func (o *orderedImpl[K, V]) Len() int {
	return o.tree.Len()
}

// Range iterates all entries in ascending key order.
func (o *orderedImpl[K, V]) Range(fn func(key K, value V) bool) {
	o.tree.Ascend(func(e entry[K, V]) bool {
		return fn(e.key, e.value)
	})
}

// --------------------------------------------------------------------------
// Ordered Operations
// --------------------------------------------------------------------------

// AscendRange iterates all entries with from <= key < to in ascending key order.
func (o *orderedImpl[K, V]) AscendRange(from, to K, fn func(key K, value V) bool) {
	o.tree.AscendRange(entry[K, V]{key: from}, entry[K, V]{key: to}, func(e entry[K, V]) bool {
		return fn(e.key, e.value)
	})
}

// Min returns the entry with the smallest key.
func (o *orderedImpl[K, V]) Min() (K, V, bool) {
	e, ok := o.tree.Min()
	return e.key, e.value, ok
}

// Max returns the entry with the largest key.
func (o *orderedImpl[K, V]) Max() (K, V, bool) {
	e, ok := o.tree.Max()
	return e.key, e.value, ok
}

// --------------------------------------------------------------------------
// Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the index
func (o *orderedImpl[K, V]) GetInfo() index.Info {
	meta := &struct {
		Degree int    `json:"degree"`
		Info   string `json:"info"`
	}{
		Degree: o.degree,
		Info:   "Iteration yields keys in ascending order.",
	}

	return index.Info{
		Len:  o.tree.Len(),
		Impl: index.ImplOrdered,
		SupportedFeatures: []index.Feature{
			index.FeaturePut, index.FeatureGet, index.FeatureRemove,
			index.FeatureRange | index.FeatureOrdered,
			index.FeatureRangeQuery,
		},
		Metadata: meta,
	}
}

// SupportsFeature checks if this implementation supports a specific index feature
func (o *orderedImpl[K, V]) SupportsFeature(feature index.Feature) bool {
	supportedFeatures := index.FeaturePut |
		index.FeatureGet |
		index.FeatureRemove |
		index.FeatureRange |
		index.FeatureOrdered |
		index.FeatureRangeQuery
	return supportedFeatures&feature == feature
}

package hash

import (
	"github.com/ValentinKolb/rod/lib/index"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Core hash index structure
// --------------------------------------------------------------------------

// hashImpl implements an unordered index backed by a xsync.MapOf
type hashImpl[K comparable, V any] struct {
	data    *xsync.MapOf[K, V]
	presize int
}

// Options configures the hash index during initialization
type Options struct {
	Presize int // Expected number of entries (0 = xsync default)
}

// DefaultOptions returns the default hash index options
func DefaultOptions() *Options {
	return &Options{
		Presize: 0,
	}
}

// NewHashIndex creates a new hash index with the specified options (optional)
func NewHashIndex[K comparable, V any](opts *Options) index.Index[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}

	var data *xsync.MapOf[K, V]
	if opts.Presize > 0 {
		data = xsync.NewMapOf[K, V](xsync.WithPresize(opts.Presize))
	} else {
		data = xsync.NewMapOf[K, V]()
	}

	return &hashImpl[K, V]{
		data:    data,
		presize: opts.Presize,
	}
}

// --------------------------------------------------------------------------
// Index Interface Methods
// --------------------------------------------------------------------------

// Put stores the value and returns the previous one if the key existed.
func (h *hashImpl[K, V]) Put(key K, value V) (V, bool) {
	return h.data.LoadAndStore(key, value)
}

// Get retrieves the value for a key.
func (h *hashImpl[K, V]) Get(key K) (V, bool) {
	return h.data.Load(key)
}

// Remove deletes the key and returns its value if it existed.
func (h *hashImpl[K, V]) Remove(key K) (V, bool) {
	return h.data.LoadAndDelete(key)
}

// Lookup retrieves the value for a key. Keys are compared with ==, so the stored key is key itself.
func (h *hashImpl[K, V]) Lookup(key K) (K, V, bool) {
	value, ok := h.data.Load(key)
	return key, value, ok
}

func (h *hashImpl[K, V]) Len() int {
	return h.data.Size()
}

// Range iterates all entries. The order is unspecified.
func (h *hashImpl[K, V]) Range(fn func(key K, value V) bool) {
	h.data.Range(fn)
}

// --------------------------------------------------------------------------
// Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the index
func (h *hashImpl[K, V]) GetInfo() index.Info {
	meta := &struct {
		Presize int    `json:"presize"`
		Info    string `json:"info"`
	}{
		Presize: h.presize,
		Info:    "Iteration order is unspecified.",
	}

	return index.Info{
		Len:  h.data.Size(),
		Impl: index.ImplHash,
		SupportedFeatures: []index.Feature{
			index.FeaturePut, index.FeatureGet, index.FeatureRemove,
			index.FeatureRange,
		},
		Metadata: meta,
	}
}

// SupportsFeature checks if this implementation supports a specific index feature
func (h *hashImpl[K, V]) SupportsFeature(feature index.Feature) bool {
	supportedFeatures := index.FeaturePut |
		index.FeatureGet |
		index.FeatureRemove |
		index.FeatureRange
	return supportedFeatures&feature == feature
}

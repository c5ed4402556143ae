package index

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplHash    Implementation = "hash"
	ImplOrdered Implementation = "ordered"
)

// Feature represents index features as bit flags
type Feature uint64

const (
	FeaturePut        Feature = 1 << iota // Support for Put operations
	FeatureGet                            // Support for Get operations
	FeatureRemove                         // Support for Remove operations
	FeatureRange                          // Support for iterating all entries
	FeatureOrdered                        // Iteration yields keys in ascending order
	FeatureRangeQuery                     // Support for AscendRange, Min and Max
)

func (f Feature) String() string {
	switch f {
	case FeaturePut:
		return "Put"
	case FeatureGet:
		return "Get"
	case FeatureRemove:
		return "Remove"
	case FeatureRange:
		return "Range"
	case FeatureOrdered:
		return "Ordered"
	case FeatureRangeQuery:
		return "RangeQuery"
	default:
		return "Unknown"
	}
}

type Info struct {
	Len               int            `json:"len"`
	Impl              Implementation `json:"impl"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Index Interface
// --------------------------------------------------------------------------

// Index maps a key to a stored value. It knows nothing about reference counting,
// an index only ever holds the values it was given and forgets them when told to.
// Implementations can vary in their feature support, which can be queried with SupportsFeature.
type Index[K comparable, V any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put stores the value for the given key.
	// If the key already exists, the old value is overwritten and returned with replaced=true.
	Put(key K, value V) (previous V, replaced bool)

	// Remove deletes the entry with the given key and returns its value.
	// Removing an absent key is a no-op and returns removed=false.
	Remove(key K) (value V, removed bool)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key K) (value V, loaded bool)

	// Lookup is like Get but also returns the key as it is stored in the index.
	// Indexes with a custom notion of key equality (e.g. an ordered index with a
	// case-insensitive less function) may return a stored key that differs from key.
	Lookup(key K) (stored K, value V, loaded bool)

	// Len returns the number of stored entries.
	Len() int

	// Range calls fn for every entry until fn returns false.
	// The order is only defined if the index supports FeatureOrdered.
	Range(fn func(key K, value V) bool)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the index implementation supports the specified feature.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the index.
	GetInfo() (info Info)
}

// OrderedIndex is an Index that keeps its keys sorted and can answer range queries.
type OrderedIndex[K comparable, V any] interface {
	Index[K, V]

	// AscendRange calls fn for every entry with from <= key < to in ascending order
	// until fn returns false.
	AscendRange(from, to K, fn func(key K, value V) bool)

	// Min returns the entry with the smallest key. ok is false if the index is empty.
	Min() (key K, value V, ok bool)

	// Max returns the entry with the largest key. ok is false if the index is empty.
	Max() (key K, value V, ok bool)
}

// Factory is a function that creates a new, empty index.
type Factory[K comparable, V any] func() Index[K, V]

// Package hash provides an unordered index.Index implementation on top of
// xsync.MapOf (github.com/puzpuzpuz/xsync/v3).
//
// Characteristics:
//   - Average O(1) Put, Get and Remove
//   - No ordering guarantee for Range
//   - Does not implement index.OrderedIndex (FeatureOrdered and FeatureRangeQuery are not supported)
//
// The underlying map is safe for concurrent use, but a rod.RodMap composes it with
// a reference count table, so callers sharing a RodMap between goroutines still
// need external synchronization.
//
// Usage Example:
//
//	idx := hash.NewHashIndex[string, []byte](nil)
//	idx.Put("room-1", []byte("booked"))
//	value, ok := idx.Get("room-1")
package hash

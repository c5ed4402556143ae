// Package rod provides RodMap, a key-value container whose entries are
// removed on drop.
//
// Inserting a value returns a Handle. More handles for the same key come from
// Handle.Clone or RodMap.Get. Every handle counts as one reference; when the
// last handle of a key is released, the entry is evicted from the map in the
// same call. Nobody deletes entries explicitly.
//
//	hotel := rod.NewHash[int, string](nil)
//
//	key, _ := hotel.Insert(0, "Room")
//	spare, _ := key.Clone()
//
//	_ = key.Release()   // room 0 is still booked
//	_ = spare.Release() // room 0 is gone, hotel.IsEmpty() == true
//
// The backing store is an index.Index. NewHash uses an unordered hash index,
// NewOrdered a B-tree that iterates keys in ascending order and answers range
// queries. Any other index can be plugged in with New.
//
// Inserting a key that still has live handles is rejected with ErrKeyOccupied
// by default; Options.DuplicatePolicy can switch to replacing the value instead.
//
// A RodMap and its handles are not safe for concurrent use. See the lockmgr
// package for a host that serialises access with a mutex.
package rod
